// server/internal/api/handlers/respond.go
package handlers

import (
	"net/http"
	"strings"

	"lmis-mock-server/internal/apperror"

	"github.com/gin-gonic/gin"
)

// respondError renders err with the status its kind maps to.
func respondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		c.Error(err)
	}
	c.JSON(status, gin.H{"error": apperror.Message(err)})
}

// optionalBool parses a "true"/"false" query value. Anything other than
// "true" (case-insensitive) is false; an absent key is nil.
func optionalBool(c *gin.Context, key string) *bool {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	b := strings.EqualFold(v, "true")
	return &b
}
