package v1

import (
	"net/http"
	"strings"

	"go-clubmatch-backend/pkg/apperror"
	"go-clubmatch-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// bindJSON binds the request body and, on failure, reports the field-level
// validation messages instead of the raw validator error string.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	msg := strings.Join(validation.FormatValidationErrors(err), "; ")
	c.Error(apperror.New(http.StatusBadRequest, msg, err))
	return false
}
