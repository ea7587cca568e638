package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// fieldErrors collects per-field validation messages. Handlers send it
// as the 400 body so clients can attach each message to its form field.
type fieldErrors map[string]string

func (e fieldErrors) ok() bool { return len(e) == 0 }

// internalError logs the cause and sends the generic 500 body.
func internalError(c *gin.Context, err error) {
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
}
