package api

import (
	"net/http"
	"os"
	"path/filepath"

	"docreel/extractor"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterDocumentRoutes registers the document upload endpoint.
func RegisterDocumentRoutes(r *gin.Engine, svc Services) {
	r.POST("/upload", handleUpload(svc))
}

// handleUpload stores the multipart "file" field, extracts its text and
// removes the stored copy. Extraction problems yield empty text, not errors.
func handleUpload(svc Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "file is required"})
			return
		}

		dest := filepath.Join(svc.TempDir, uuid.NewString()+"_"+filepath.Base(file.Filename))
		if err := c.SaveUploadedFile(file, dest); err != nil {
			svc.Log.Error("failed to store upload", zap.String("file", file.Filename), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not store upload"})
			return
		}
		defer func() {
			if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
				svc.Log.Warn("failed to remove upload", zap.String("path", dest), zap.Error(err))
			}
		}()

		kind := extractor.Detect(file.Header.Get("Content-Type"), file.Filename)
		text := svc.Extractor.Extract(dest, kind)
		svc.Log.Info("document extracted",
			zap.String("file", file.Filename),
			zap.String("kind", string(kind)),
			zap.Int("chars", len([]rune(text))))

		c.JSON(http.StatusOK, gin.H{"status": "success", "text": text})
	}
}
