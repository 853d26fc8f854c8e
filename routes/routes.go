package routes

import (
	"time"

	"moim/handlers"
	"moim/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers the sign-in and account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.GET("/login/google", hb.User.GoogleLoginURLHandler)
		api.POST("/login/google/callback", hb.User.GoogleCallbackHandler)
		api.GET("/login/google/callback", hb.User.GoogleCallbackHandler)

		// Protected routes (require authentication).
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/me", hb.User.MeHandler)
		api.POST("/logout", hb.User.LogoutHandler)
	}
}

// RegisterAppointmentRoutes registers the appointment endpoints. Everything
// here requires authentication.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Appointment.CreateHandler)
		api.GET("", hb.Appointment.ListHandler)
		api.POST("/sync", hb.Appointment.SyncHandler)

		api.GET("/:inviteCode", hb.Appointment.GetHandler)
		api.GET("/:inviteCode/detail", hb.Appointment.DetailHandler)
		api.POST("/:inviteCode/join", hb.Appointment.JoinHandler)
		api.DELETE("/:inviteCode", hb.Appointment.DeleteHandler)
		api.GET("/:inviteCode/optimal-times", hb.Appointment.OptimalTimesHandler)
		api.POST("/:inviteCode/confirm", hb.Appointment.ConfirmHandler)
		api.POST("/:inviteCode/calendar-event", hb.Appointment.AddToCalendarHandler)
	}
}

// RegisterCalendarRoutes registers the user-facing calendar endpoints.
// Everything here requires authentication.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/events", hb.Calendar.ListEventsHandler)
		api.DELETE("/events/:eventID", hb.Calendar.DeleteEventHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterUserRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
}
