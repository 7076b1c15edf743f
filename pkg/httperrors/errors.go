// Package httperrors writes error responses for the API.
package httperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tally-ledger/backend/pkg/models"
)

type HTTPError struct {
	Error string `json:"error" example:"the amount must not have more than two decimal places, got 10.005"`
}

// Generate a struct containing the HTTP error on the fly.
func New(c *gin.Context, status int, msgAndArgs ...any) {
	// Format msgAndArgs in a final string.
	// This is taken almost exactly from https://github.com/stretchr/testify/blob/181cea6eab8b2de7071383eca4be32a424db38dd/assert/assertions.go#L181
	msg := ""
	if len(msgAndArgs) == 1 {
		if msgAsStr, ok := msgAndArgs[0].(string); ok {
			msg = msgAsStr
		}
		msg = fmt.Sprintf("%+v", msg)
	}

	if len(msgAndArgs) > 1 {
		msg = fmt.Sprintf(msgAndArgs[0].(string), msgAndArgs[1:]...)
	}

	c.JSON(status, HTTPError{
		Error: msg,
	})
}

// Status returns the HTTP status code for an error.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrStorageTransient):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

// Handler writes the error response for err.
//
// Server errors are logged with the request id. Their details are not sent
// to the client.
func Handler(c *gin.Context, err error) {
	status := Status(err)

	switch status {
	case http.StatusInternalServerError:
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		New(c, status, "An error occurred on the server during your request, please contact your server administrator. The request id is '%v', send this to your server administrator to help them finding the problem", requestid.Get(c))
		return

	case http.StatusServiceUnavailable:
		log.Warn().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		c.Header("Retry-After", "1")
	}

	New(c, status, err.Error())
}
