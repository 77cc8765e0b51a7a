// Package router wires handlers into the echo route table.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/avdeyev/cinema-booking/internal/config"
	"github.com/avdeyev/cinema-booking/internal/handler"
	"github.com/avdeyev/cinema-booking/internal/middleware"
	"github.com/avdeyev/cinema-booking/internal/model"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Auth      *handler.AuthHandler
	Browse    *handler.BrowseHandler
	Tickets   *handler.TicketHandler
	Reviews   *handler.ReviewHandler
	Favorites *handler.FavoriteHandler
	Admin     *handler.AdminHandler
}

// Register builds the full route table.  Public catalog reads sit
// behind the Redis response cache, the reserve endpoint behind the
// rate limiter; both degrade to pass-throughs without Redis.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Public catalog.
	pub := e.Group("/v1", cache)
	pub.GET("/cinemas", h.Browse.ListCinemas)
	pub.GET("/cinemas/:id/halls", h.Browse.ListHalls)
	pub.GET("/movies", h.Browse.ListMovies)
	pub.GET("/movies/:id", h.Browse.GetMovie)
	pub.GET("/movies/:id/screenings", h.Browse.ListScreenings)
	pub.GET("/movies/:id/reviews", h.Reviews.ListByMovie)
	pub.GET("/screenings/:id", h.Browse.GetScreening)
	pub.GET("/screenings/:id/seats", h.Browse.Seats)

	// Account endpoints.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)

	// Authenticated user surface.
	user := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	user.GET("/me", h.Auth.Me)
	user.POST("/screenings/:id/tickets", h.Tickets.Reserve, limit)
	user.POST("/tickets/:id/pay", h.Tickets.Pay)
	user.POST("/tickets/:id/cancel", h.Tickets.Cancel)
	user.GET("/my-tickets", h.Tickets.MyTickets)
	user.GET("/tickets/:id", h.Tickets.Detail)
	user.GET("/tickets/:id/receipt", h.Tickets.Receipt)
	user.POST("/movies/:id/reviews", h.Reviews.Create)
	user.DELETE("/reviews/:id", h.Reviews.Delete)
	user.POST("/movies/:id/favorite", h.Favorites.Add)
	user.DELETE("/movies/:id/favorite", h.Favorites.Remove)
	user.GET("/my-favorites", h.Favorites.List)

	// Admin surface.
	admin := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin))
	admin.POST("/admin/cinemas", h.Admin.CreateCinema)
	admin.POST("/admin/halls", h.Admin.CreateHall)
	admin.POST("/admin/movies", h.Admin.CreateMovie)
	admin.POST("/admin/screenings", h.Admin.CreateScreening)
	admin.DELETE("/admin/screenings/:id", h.Admin.DeactivateScreening)
	admin.POST("/tickets/:id/use", h.Tickets.CheckIn)
}
