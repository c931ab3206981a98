package http

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/monyze/internal/server/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// credentialsRequest fields are optional at the binding level; missing
// values are reported by the credential check as 401.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Status  string                `json:"status"`
	User    *services.SessionUser `json:"user,omitempty"`
	Expires *time.Time            `json:"expires,omitempty"`
}

type signInResponse struct {
	Token   string               `json:"token"`
	Expires time.Time            `json:"expires"`
	User    services.SessionUser `json:"user"`
}

type provider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Session statuses reported by GET /api/auth/session.
const (
	StatusAuthenticated = "authenticated"
	StatusAnonymous     = "anonymous"
)

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, services.ErrMissingFields)
		return
	}

	user, err := s.users.Register(c.Request.Context(), services.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (s *HTTPServer) signIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "request body must be a JSON object with email and password"})
		return
	}

	sess, err := s.users.SignIn(c.Request.Context(), services.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		s.writeError(c, err)
		return
	}

	store := sessions.Default(c)
	store.Set(sessionKeyToken, sess.Token)
	if err := store.Save(); err != nil {
		s.logger.Error(c.Request.Context(), "error saving session cookie", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": internalErrorMessage})
		return
	}

	c.JSON(http.StatusOK, signInResponse{Token: sess.Token, Expires: sess.ExpiresAt, User: sess.User})
}

// signOut forgets the cookie. Tokens already handed out stay valid until
// they expire.
func (s *HTTPServer) signOut(c *gin.Context) {
	s.clearCookie(c)
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) session(c *gin.Context) {
	sess, err := s.currentSession(c)
	if err != nil {
		c.JSON(http.StatusOK, sessionResponse{Status: StatusAnonymous})
		return
	}

	c.JSON(http.StatusOK, sessionResponse{
		Status:  StatusAuthenticated,
		User:    &sess.User,
		Expires: &sess.ExpiresAt,
	})
}

func (s *HTTPServer) providers(c *gin.Context) {
	c.JSON(http.StatusOK, []provider{{ID: "credentials", Name: "Credentials", Type: "credentials"}})
}

func (s *HTTPServer) me(c *gin.Context) {
	sess := c.MustGet(ContextSessionKey).(*services.Session)

	user, err := s.users.GetUser(c.Request.Context(), sess.User.ID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
