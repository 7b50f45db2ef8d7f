package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterScriptRoutes registers the script generation endpoint.
func RegisterScriptRoutes(r *gin.Engine, svc Services) {
	r.POST("/generate-script", handleGenerateScript(svc))
}

// handleGenerateScript returns the script as a bare JSON array.
func handleGenerateScript(svc Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, ok := requireForm(c, "text", "genre", "duration")
		if !ok {
			return
		}

		segments, err := svc.Scripts.Generate(c.Request.Context(), fields["text"], fields["genre"], fields["duration"])
		if err != nil {
			svc.Log.Error("script generation failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"detail": "Script generation failed"})
			return
		}
		c.JSON(http.StatusOK, segments)
	}
}

// requireForm reads the named form fields, answering 422 when one is absent.
func requireForm(c *gin.Context, names ...string) (map[string]string, bool) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		v, ok := c.GetPostForm(name)
		if !ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": name + " is required"})
			return nil, false
		}
		out[name] = v
	}
	return out, true
}
