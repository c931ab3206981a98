package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/monyze/internal/common"
	"github.com/dmitrijs2005/monyze/internal/server/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// ContextSessionKey holds the *services.Session of an authenticated request.
const ContextSessionKey = "monyze.session"

func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

// RequireSession rejects requests without a valid session token with 401.
func (s *HTTPServer) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := s.currentSession(c)
		if err != nil {
			msg := "authentication required"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "session expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}
		c.Set(ContextSessionKey, sess)
		c.Next()
	}
}

// currentSession reads the token from the Authorization header, falling back
// to the session cookie. A cookie holding a bad token is cleared.
func (s *HTTPServer) currentSession(c *gin.Context) (*services.Session, error) {
	if token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName)); ok {
		return s.users.Session(c.Request.Context(), token)
	}

	store := sessions.Default(c)
	token, _ := store.Get(sessionKeyToken).(string)
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	sess, err := s.users.Session(c.Request.Context(), token)
	if err != nil {
		s.clearCookie(c)
		return nil, err
	}
	return sess, nil
}

func bearerToken(header string) (string, bool) {
	if len(header) <= len(common.BearerPrefix) || !strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(common.BearerPrefix):])
	return token, token != ""
}

func (s *HTTPServer) clearCookie(c *gin.Context) {
	store := sessions.Default(c)
	store.Clear()
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	if err := store.Save(); err != nil {
		s.logger.Warn(c.Request.Context(), "error clearing session cookie", "error", err)
	}
}
