package http

import "github.com/gin-gonic/gin"

func (s *HTTPServer) setupRoutes(router *gin.Engine) {
	router.GET("/health", s.health)

	api := router.Group("/api")
	{
		api.POST("/register", s.register)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signin", s.signIn)
			authRoutes.POST("/signout", s.signOut)
			authRoutes.GET("/session", s.session)
			authRoutes.GET("/providers", s.providers)
		}

		// finance APIs hang off this group
		protected := api.Group("")
		protected.Use(s.RequireSession())
		{
			protected.GET("/me", s.me)
		}
	}
}
