package routes

import (
	"net/http"
	"time"

	"tablevoice/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterVoiceRoutes registers the telephony webhook endpoint.
func RegisterVoiceRoutes(r *gin.Engine, vh *handlers.VoiceHandler) {
	api := r.Group("/api/voice")
	{
		api.POST("/turn", vh.HandleTurn)
	}
}

// RegisterReservationRoutes registers the REST CRUD endpoints, reachable
// outside any call.
func RegisterReservationRoutes(r *gin.Engine, rh *handlers.ReservationHandler) {
	api := r.Group("/api/reservations")
	api.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	{
		api.POST("", rh.CreateReservation)
		api.GET("", rh.ListReservations)
		api.GET("/:code", rh.GetReservation)
		api.DELETE("/:code", rh.CancelReservation)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Tablevoice"})
	})
}

// RegisterRoutes wires every route group onto the router.
func RegisterRoutes(r *gin.Engine, vh *handlers.VoiceHandler, rh *handlers.ReservationHandler) {
	RegisterHealthRoute(r)
	RegisterVoiceRoutes(r, vh)
	RegisterReservationRoutes(r, rh)
}
