package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

// NewServer builds the router for the game api. corsOrigin is sent back as Access-Control-Allow-Origin.
func NewServer(logger *slog.Logger, port, corsOrigin string, game gameUseCase) *Server {
	gin.SetMode(gin.ReleaseMode)

	logger = logger.With("component", "rest")

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), cors(corsOrigin))

	registerRoutes(router, newHandlers(logger, game))

	return &Server{
		logger: logger,
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

func registerRoutes(router *gin.Engine, h *handlers) {
	router.GET("/ping", pingHandler)

	game := router.Group("/game")
	game.GET("/deck/:sessionId", h.deck)
	game.POST("/flip/:sessionId", h.flip)
	game.GET("/result/:sessionId", h.result)
	game.POST("/save/:sessionId", h.save)
	game.GET("/history", h.allHistory)
	game.GET("/history/:run", h.history)
}

func (that *Server) Handler() http.Handler {
	return that.srv.Handler
}

// Start blocks until the server is shut down.
func (that *Server) Start() error {
	that.logger.Info("http server listening", "addr", that.srv.Addr)

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if err := that.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
