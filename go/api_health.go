package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthAPI reports liveness.
type HealthAPI struct{}

// Get /health
func (HealthAPI) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
