package main

import "github.com/gin-gonic/gin"

func SetupRoutes(r *gin.Engine) {

	// Public Routes
	r.POST("/auth/register", Signup)
	r.POST("/auth/login", Login)
	r.GET("/events", ListEventsHandler)
	r.GET("/events/popular", MostPopularEventHandler)
	r.GET("/events/:id", GetEventHandler)
	// Token-based self-service lookup; the token is the credential.
	r.GET("/events/:id/participants/token/:token", GetParticipantByTokenHandler)

	// Protected Routes
	authorized := r.Group("/api")
	authorized.Use(AuthMiddleware())
	{
		// EVENTS
		authorized.POST("/events", CreateEventHandler)
		authorized.PUT("/events/:id", UpdateEventHandler)
		authorized.DELETE("/events/:id", DeleteEventHandler)
		authorized.GET("/events/:id/stats", EventStatsHandler)

		// PARTICIPANTS
		authorized.POST("/events/:id/participants", RegisterParticipantHandler)
		authorized.GET("/events/:id/participants", ListParticipantsHandler)
		authorized.PUT("/participants/:id", UpdateParticipantHandler)
		authorized.POST("/participants/:id/attendance", SetAttendanceHandler)

		// FEEDBACK
		authorized.POST("/events/:id/feedback", SubmitFeedbackHandler)
		authorized.GET("/events/:id/feedback", ListFeedbackHandler)
		authorized.DELETE("/feedback/:id", DeleteFeedbackHandler)

		// ROLES
		authorized.POST("/roles/request", RequestAdminHandler)
		authorized.GET("/roles/requests", ListAdminRequestsHandler)
		authorized.POST("/roles/requests/:id/approve", ApproveAdminHandler)
		authorized.POST("/roles/requests/:id/reject", RejectAdminHandler)

		// ACCOUNTS
		authorized.DELETE("/users/:id", DeleteUserHandler)

		// LOCATIONS
		authorized.GET("/locations", ListLocationsHandler)
		authorized.DELETE("/locations/:id", DeleteLocationHandler)
	}
}
