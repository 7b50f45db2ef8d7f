package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"docreel/config"
	"docreel/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterVideoRoutes registers video creation and download endpoints.
func RegisterVideoRoutes(r *gin.Engine, svc Services) {
	r.POST("/create-video", handleCreateVideo(svc))
	r.GET("/download/:filename", handleDownload(svc))
}

// handleCreateVideo renders the video synchronously and answers with its
// download URL once the file exists.
func handleCreateVideo(svc Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, ok := requireForm(c, "script", "genre")
		if !ok {
			return
		}

		segments, err := types.ParseScript(fields["script"], config.DefaultSearchTerm)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}

		job, err := types.NewJob(svc.TempDir)
		if err != nil {
			svc.Log.Error("failed to create job", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Video generation failed"})
			return
		}

		// The render outlives a dropped client; only the server stops it.
		name, err := svc.Videos.Create(context.WithoutCancel(c.Request.Context()), job, segments, fields["genre"])
		if err != nil {
			svc.Log.Error("video generation failed",
				zap.String("job", job.ID),
				zap.Error(err),
				zap.Stack("stack"))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Video generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "completed", "video_url": "/download/" + name})
	}
}

// handleDownload serves a rendered video from the temp directory. Only the
// base name of the request is honoured and only finished renders match.
func handleDownload(svc Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := filepath.Base(c.Param("filename"))
		if !types.IsOutputName(name) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "File not found"})
			return
		}

		path := filepath.Join(svc.TempDir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			c.JSON(http.StatusNotFound, gin.H{"detail": "File not found"})
			return
		}
		c.File(path)
	}
}
