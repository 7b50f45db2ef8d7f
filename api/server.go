package api

import (
	"context"
	"time"

	"docreel/extractor"
	"docreel/types"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TextExtractor interface {
	Extract(path string, kind extractor.Kind) string
}

type ScriptWriter interface {
	Generate(ctx context.Context, text, genre, duration string) ([]types.ScriptSegment, error)
}

type VideoCreator interface {
	Create(ctx context.Context, job *types.Job, segments []types.ScriptSegment, genre string) (string, error)
}

// Services are the pipeline components behind the HTTP endpoints.
type Services struct {
	Extractor TextExtractor
	Scripts   ScriptWriter
	Videos    VideoCreator
	// TempDir holds uploads and rendered videos.
	TempDir string
	Log     *zap.Logger
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(svc.Log))
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoutes(r)
	RegisterDocumentRoutes(r, svc)
	RegisterScriptRoutes(r, svc)
	RegisterVideoRoutes(r, svc)
	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
