package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lkettell/nestegg/internal/storage"
	"github.com/lkettell/nestegg/internal/wealth"
)

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"schema_version": storage.SchemaVersion(),
	})
}

func (s *Server) wealthCurve(c *gin.Context) {
	preset, err := wealth.ParsePreset(c.Query("preset"))
	if err != nil {
		s.sendError(c, err)
		return
	}
	filters, err := parseFilters(c)
	if err != nil {
		s.sendError(c, err)
		return
	}

	curve, err := s.analytics.Curve(c.Request.Context(), preset, c.Query("from"), c.Query("to"), filters)
	if err != nil {
		s.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, curve)
}

func (s *Server) wealthOverview(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		s.sendError(c, err)
		return
	}

	overview, err := s.analytics.Overview(c.Request.Context(), c.Query("as_of"), filters)
	if err != nil {
		s.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// parseFilters reads the include_* toggles; each defaults to on.
func parseFilters(c *gin.Context) (wealth.Filters, error) {
	filters := wealth.DefaultFilters()
	toggles := []struct {
		param string
		dst   *bool
	}{
		{"include_cash", &filters.Cash},
		{"include_real_estate", &filters.RealEstate},
		{"include_investment", &filters.Investment},
		{"include_liability", &filters.Liability},
	}
	for _, t := range toggles {
		v, err := wealth.ParseBool(c.Query(t.param), true)
		if err != nil {
			return wealth.Filters{}, fmt.Errorf("%s: %w", t.param, err)
		}
		*t.dst = v
	}
	return filters, nil
}

// sendError maps service errors onto status codes. Anything outside
// the two sentinels is an internal failure and stays out of the body.
func (s *Server) sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, wealth.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, wealth.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.log.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
