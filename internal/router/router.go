// Package router wires HTTP routes to their handlers.  The rate limiter
// applies to everything; the response cache only to the seeded reference
// data, which is the one thing safe to serve stale.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/middleware"
)

// RegisterRoutes registers the health check and all /v1 endpoints on the
// provided Echo instance.  rdb may be nil, in which case the cache and
// rate limit middleware become pass-throughs.
func RegisterRoutes(e *echo.Echo, catalog *handler.CatalogHandler, reservations *handler.ReservationHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	v1 := e.Group("/v1")

	// Reference data never changes after seeding; cache it.
	cached := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	v1.GET("/areas", catalog.GetAreas, cached)
	v1.GET("/tables", catalog.GetTables, cached)

	// Availability reflects live reservation state and must not be cached.
	v1.GET("/tables/available", catalog.GetAvailableTables)

	v1.POST("/reservations", reservations.Create)
	v1.GET("/reservations", reservations.List)
	v1.POST("/reservations/:id/accept", reservations.Accept)
	v1.POST("/reservations/:id/decline", reservations.Decline)
	v1.DELETE("/reservations/:id", reservations.Cancel)
}
