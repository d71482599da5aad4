package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carshare/internal/auth"
	"carshare/internal/handler"
	"carshare/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler    *handler.UserHandler
	RideHandler    *handler.RideHandler
	BookingHandler *handler.BookingHandler
	TokenService   *auth.TokenService
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(cors.Default())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.Idempotency(deps.RedisClient))

	authn := middleware.Authenticate(deps.TokenService)

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.POST("/login", deps.UserHandler.Login)
			users.GET("", authn, middleware.RequireRole("ADMIN"), deps.UserHandler.GetAll)
			users.GET("/:id", authn, deps.UserHandler.GetUser)
			users.DELETE("/:id", authn, middleware.RequireRole("ADMIN"), deps.UserHandler.Delete)
		}

		// Ride routes.
		rides := v1.Group("/rides")
		{
			rides.GET("", deps.RideHandler.GetAll)
			rides.GET("/search", deps.RideHandler.Search)
			rides.GET("/upcoming", deps.RideHandler.Upcoming)
			rides.GET("/driver/:driverId", deps.RideHandler.ByDriver)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.POST("", authn, deps.RideHandler.CreateRide)
			rides.PUT("/:id", authn, deps.RideHandler.Update)
			rides.POST("/:id/cancel", authn, deps.RideHandler.Cancel)
			rides.POST("/:id/complete", authn, deps.RideHandler.Complete)
			rides.DELETE("/:id", authn, deps.RideHandler.Delete)
		}

		// Booking routes.
		bookings := v1.Group("/bookings", authn)
		{
			bookings.POST("", deps.BookingHandler.Create)
			bookings.GET("/:id", deps.BookingHandler.Get)
			bookings.GET("/passenger/:passengerId", deps.BookingHandler.ByPassenger)
			bookings.GET("/ride/:rideId", deps.BookingHandler.ByRide)
			bookings.POST("/:id/cancel", deps.BookingHandler.Cancel)
			bookings.POST("/:id/confirm", deps.BookingHandler.Confirm)
			bookings.POST("/:id/complete", deps.BookingHandler.Complete)
		}
	}

	return router
}
