package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rsvphub/services"
)

// TemplateGallery returns the static invitation template catalog.
func TemplateGallery(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": services.Templates})
}
