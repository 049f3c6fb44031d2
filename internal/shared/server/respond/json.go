package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// HTML renders a named template from the engine's HTML renderer. Pages are
// per-session so they are never cached.
func HTML(c *gin.Context, status int, name string, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.HTML(status, name, data)
}

// SeeOther redirects a form post back to a page (post/redirect/get).
func SeeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
