// Package server exposes the wealth analytics and chart renders over a
// small read-only HTTP API. The listener binds loopback by default and
// carries no auth; exposing it beyond localhost is the caller's call.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lkettell/nestegg/internal/chart"
	"github.com/lkettell/nestegg/internal/wealth"
)

// DefaultAddr keeps the API on loopback unless overridden.
const DefaultAddr = "127.0.0.1:8417"

const shutdownGrace = 5 * time.Second

// Analytics is the slice of the wealth service the handlers consume.
type Analytics interface {
	Curve(ctx context.Context, preset wealth.Preset, from, to string, filters wealth.Filters) (wealth.Curve, error)
	Overview(ctx context.Context, asOf string, filters wealth.Filters) (wealth.Overview, error)
}

type Server struct {
	analytics Analytics
	log       *zap.Logger
	opts      chart.Options
}

// New wires the handlers. opts styles the SVG endpoints; its zero
// value keeps the engine defaults.
func New(analytics Analytics, log *zap.Logger, opts chart.Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{analytics: analytics, log: log, opts: opts}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.log))

	router.GET("/healthz", s.healthz)

	api := router.Group("/api")
	{
		api.GET("/wealth/curve", s.wealthCurve)
		api.GET("/wealth/overview", s.wealthOverview)

		charts := api.Group("/charts")
		{
			charts.GET("/wealth.svg", s.wealthChartSVG)
			charts.GET("/composition.svg", s.compositionChartSVG)
			charts.GET("/flow.svg", s.flowChartSVG)
		}
	}

	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("http server listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}
