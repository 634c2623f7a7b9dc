package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health is the liveness probe.
// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
