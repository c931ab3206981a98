package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/monyze/internal/common"
	"github.com/dmitrijs2005/monyze/internal/server/services"
	"github.com/gin-gonic/gin"
)

// errorResponses maps service errors to a status and a user-facing message.
// Order matters: specific errors come before their categories.
var errorResponses = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrMissingFields, http.StatusBadRequest, "name, email and password are required"},
	{services.ErrPasswordTooLong, http.StatusBadRequest, "password must be at most 72 bytes"},
	{services.ErrEmailTaken, http.StatusConflict, "email is already in use"},
	{services.ErrMissingCredentials, http.StatusUnauthorized, "email and password are required"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
	{common.ErrTokenExpired, http.StatusUnauthorized, "session expired"},
	{common.ErrorValidation, http.StatusBadRequest, "invalid request"},
	{common.ErrorConflict, http.StatusConflict, "conflict"},
	{common.ErrorUnauthorized, http.StatusUnauthorized, "authentication required"},
}

const internalErrorMessage = "unexpected error, please try again later"

// writeError answers with the mapped status and message. Anything unmapped is
// a 500 whose details go to the log only.
func (s *HTTPServer) writeError(c *gin.Context, err error) {
	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			c.JSON(r.status, gin.H{"message": r.message})
			return
		}
	}

	if !errors.Is(err, common.ErrorInternal) {
		s.logger.Error(c.Request.Context(), "unhandled error", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": internalErrorMessage})
}
