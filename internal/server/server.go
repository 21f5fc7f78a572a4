// Package server exposes the tracker over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/modelpulse/modelpulse/internal/tracker"
)

type Server struct {
	store  *tracker.Store
	logger *zap.Logger
}

func New(store *tracker.Store, logger *zap.Logger) *Server {
	return &Server{store: store, logger: logger}
}

// Router builds the gin engine with all ModelPulse routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(s.logger))

	router.GET("/healthz", s.handleHealth)

	mp := router.Group("/modelpulse")
	{
		mp.GET("/usage", s.handleUsage)
		mp.GET("/model/*id", s.handleModelDetail)
		mp.GET("/categories", s.handleCategories)
		mp.POST("/reset", s.handleReset)
		mp.POST("/cleanup", s.handleCleanup)
		mp.POST("/track", s.handleTrack)
	}

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info("server_start", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server_stop")
		return srv.Shutdown(shutdownCtx)
	}
}
