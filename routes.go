package main

import "github.com/gin-gonic/gin"

func SetupRoutes(r *gin.Engine) {

	// Public Routes
	r.GET("/sessions", ListPublicSessions)
	r.POST("/register", CreateRegistration)
	r.POST("/admin/login", Login)

	// Protected Routes
	authorized := r.Group("/api")
	authorized.Use(AuthMiddleware())
	{
		// SESSIONS
		authorized.GET("/sessions", ListSessions)
		authorized.POST("/sessions", CreateSession)
		authorized.PATCH("/sessions/:id", UpdateSession)
		authorized.DELETE("/sessions/:id", DeleteSession)

		// REGISTRATIONS
		authorized.GET("/registrations", ListRegistrations)
		authorized.GET("/registrations/export", ExportRegistrations)
	}
}
