package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/lkettell/nestegg/internal/chart"
	"github.com/lkettell/nestegg/internal/svg"
	"github.com/lkettell/nestegg/internal/wealth"
)

const (
	defaultChartWidth = 960
	maxChartWidth     = 4096
)

const svgContentType = "image/svg+xml; charset=utf-8"

func (s *Server) wealthChartSVG(c *gin.Context) {
	preset, err := wealth.ParsePreset(c.Query("preset"))
	if err != nil {
		s.sendError(c, err)
		return
	}
	metric, err := wealth.ParseMetric(c.Query("metric"))
	if err != nil {
		s.sendError(c, err)
		return
	}
	filters, err := parseFilters(c)
	if err != nil {
		s.sendError(c, err)
		return
	}
	width, err := parseWidth(c.Query("width"))
	if err != nil {
		s.sendError(c, err)
		return
	}

	curve, err := s.analytics.Curve(c.Request.Context(), preset, c.Query("from"), c.Query("to"), filters)
	if err != nil {
		s.sendError(c, err)
		return
	}

	geom := chart.Line(wealth.CurveSeries(curve, metric), width, s.chartOptions())
	c.Data(http.StatusOK, svgContentType, []byte(svg.RenderLine(geom)))
}

func (s *Server) compositionChartSVG(c *gin.Context) {
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
	width, err := parseWidth(c.Query("width"))
	if err != nil {
		s.sendError(c, err)
		return
	}

	curve, err := s.analytics.Curve(c.Request.Context(), preset, c.Query("from"), c.Query("to"), filters)
	if err != nil {
		s.sendError(c, err)
		return
	}

	geom, err := chart.StackBands(wealth.CurveStack(curve), filters.Visibility(), width, s.chartOptions())
	if err != nil {
		s.sendError(c, err)
		return
	}
	c.Data(http.StatusOK, svgContentType, []byte(svg.RenderStack(geom)))
}

func (s *Server) flowChartSVG(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		s.sendError(c, err)
		return
	}
	width, err := parseWidth(c.Query("width"))
	if err != nil {
		s.sendError(c, err)
		return
	}

	overview, err := s.analytics.Overview(c.Request.Context(), c.Query("as_of"), filters)
	if err != nil {
		s.sendError(c, err)
		return
	}

	categories, debt := wealth.FlowBreakdown(overview)
	geom := chart.Flow(categories, debt, width, s.chartOptions())
	c.Data(http.StatusOK, svgContentType, []byte(svg.RenderFlow(geom)))
}

// parseWidth accepts a positive pixel width. Oversized values clamp
// instead of erroring; the render clamps the low end itself.
func parseWidth(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return defaultChartWidth, nil
	}
	width, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || width <= 0 {
		return 0, fmt.Errorf("%w: width must be a positive integer, got %q", wealth.ErrInvalidQuery, raw)
	}
	if width > maxChartWidth {
		width = maxChartWidth
	}
	return width, nil
}

// chartOptions applies money axis labels unless the configured
// options already inject a formatter.
func (s *Server) chartOptions() chart.Options {
	opts := s.opts
	if opts.ValueFormatter == nil {
		opts.ValueFormatter = moneyLabel
	}
	return opts
}

func moneyLabel(v float64) string {
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(-v, 0)
	}
	return "$" + humanize.CommafWithDigits(v, 0)
}
