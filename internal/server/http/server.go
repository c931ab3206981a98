// Package http exposes the Monyze auth API over HTTP with gin.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/monyze/internal/logging"
	"github.com/dmitrijs2005/monyze/internal/server/config"
	"github.com/dmitrijs2005/monyze/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName is the cookie that carries the session token.
	SessionCookieName = "monyze_session"
	sessionKeyToken   = "token"

	shutdownTimeout = 5 * time.Second
)

type HTTPServer struct {
	address string
	config  *config.Config
	users   *services.UserService
	logger  logging.Logger
	router  *gin.Engine
}

func NewHTTPServer(c *config.Config, l logging.Logger, us *services.UserService) (*HTTPServer, error) {
	s := &HTTPServer{
		address: c.HTTPAddr,
		config:  c,
		users:   us,
		logger:  l.With("module", "http_server"),
	}
	s.router = s.newRouter()
	return s, nil
}

// Handler returns the routed gin engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) newRouter() *gin.Engine {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.accessLog())

	if origins := s.config.CORSOrigins(); len(origins) > 0 {
		router.Use(cors.New(corsConfig(origins)))
	}

	store := cookie.NewStore([]byte(s.config.SecretKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(s.config.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(SessionCookieName, store))

	s.setupRoutes(router)
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			break
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	return cfg
}

func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
