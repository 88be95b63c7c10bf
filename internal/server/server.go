package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mvolkoff/beseda/internal/store"
)

// Server bundles the HTTP server with the fixture database it serves.
type Server struct {
	HTTPServer *http.Server
	DB         *store.DB
}

// New opens the fixture database, runs migrations and builds the HTTP
// server. The caller starts it with ListenAndServe.
func New(addr, dbPath string, logger *zap.Logger) (*Server, error) {
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	res, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("fixture database ready",
		zap.String("path", dbPath),
		zap.Uint("schema_version", res.Version),
		zap.Bool("migrated", res.Changed))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLog(logger))
	NewHandler(db, logger).RegisterRoutes(r)

	return &Server{
		HTTPServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  20 * time.Second,
			WriteTimeout: 20 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		DB: db,
	}, nil
}

// Shutdown drains in-flight requests and closes the database.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.HTTPServer.Shutdown(ctx)
	if cerr := s.DB.Close(); err == nil {
		err = cerr
	}
	return err
}

func requestLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
