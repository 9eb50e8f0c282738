// Package server exposes the prediction workflow over HTTP for the intranet
// frontend: the current batch, the catalog, human confirmations, and the
// mail acknowledge.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/frsuministros/orderflow/internal/catalog"
	"github.com/frsuministros/orderflow/internal/engine"
	"github.com/frsuministros/orderflow/internal/service"
	"github.com/gin-gonic/gin"
)

// Trigger requests an out-of-band ingestion cycle.
type Trigger interface {
	TriggerNow()
}

// Server holds the collaborators the handlers need.
type Server struct {
	index     *catalog.Index
	publisher *engine.Publisher
	updater   *engine.Updater
	mail      service.MailSource
	audio     service.AudioSource
	trigger   Trigger
}

// New builds the HTTP surface. audio and trigger may be nil; the matching
// endpoints then report the feature as absent.
func New(index *catalog.Index, publisher *engine.Publisher, updater *engine.Updater, mail service.MailSource, audio service.AudioSource, trigger Trigger) *Server {
	return &Server{
		index:     index,
		publisher: publisher,
		updater:   updater,
		mail:      mail,
		audio:     audio,
		trigger:   trigger,
	}
}

// Router assembles the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	_ = router.SetTrustedProxies(nil)

	router.GET("/healthz", s.handleHealth)
	router.GET("/catalog", s.handleCatalog)
	router.GET("/predictions", s.handlePredictions)
	router.POST("/confirm", s.handleConfirm)
	router.POST("/mark-read", s.handleMarkRead)
	router.GET("/audio", s.handleAudio)

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// corsMiddleware allows the intranet frontend to call from any origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
