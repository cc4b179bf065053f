// Package handlers implements the HTTP endpoints: scan, verify, analyze,
// marketplaces, and health.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/AssetHunter-Intelligence/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError writes the structured error body with the status mapped from
// the application error code.  Plain errors map to 500 with a masked message.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if errors.IsServerError(code) {
		message = errors.DefaultMessageForCode(code)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:    code.String(),
		Message: message,
	})
}

// respondBadRequest rejects a request whose body failed to bind.
func respondBadRequest(c *gin.Context, err error) {
	respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
}
