package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/observability"
)

func statusFor(t apperror.Type) int {
	switch t {
	case apperror.TypeInvalidInput:
		return http.StatusBadRequest
	case apperror.TypeUnauthorized:
		return http.StatusUnauthorized
	case apperror.TypeForbidden:
		return http.StatusForbidden
	case apperror.TypeNotFound:
		return http.StatusNotFound
	case apperror.TypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": code, "message": text}. Internal
// causes are logged and never sent to the client.
func writeError(c *gin.Context, err error) {
	t := apperror.TypeOf(err)
	msg := "Internal Server Error"
	if t != apperror.TypeInternal {
		if appErr, ok := asAppError(err); ok {
			msg = appErr.Message
		}
	} else {
		observability.LoggerFromContext(c.Request.Context()).Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(statusFor(t), gin.H{"error": string(t), "message": msg})
}

func asAppError(err error) (*apperror.AppError, bool) {
	var appErr *apperror.AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}
