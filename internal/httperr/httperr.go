package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type HTTPError struct {
	Message string `json:"error"`
	Code    string `json:"error_code,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Message: message,
		Code:    code,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// Respond maps an error returned by a use case onto the HTTP error contract:
// business rule → 400, missing row → 404, provider failure → 400 with the
// provider message, anything else → 500 with the caught message.
func Respond(c *gin.Context, err error) {
	if be, ok := AsBusiness(err); ok {
		BadRequest(c, be.Code, be.Error())
		return
	}

	if errors.Is(err, ErrNotFound) {
		NotFound(c, "not_found", "Resource not found.")
		return
	}

	if pe, ok := AsProvider(err); ok {
		BadRequest(c, pe.Provider+"_error", pe.Message)
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
	Internal(c, "internal_error", err.Error())
}
