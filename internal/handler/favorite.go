package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/cinema-booking/internal/middleware"
	"github.com/avdeyev/cinema-booking/internal/repository"
)

// FavoriteHandler serves movie favorites.  Add and remove are both
// idempotent.
type FavoriteHandler struct {
	Favorites *repository.FavoriteRepo
	Movies    *repository.MovieRepo
}

// Add handles POST /v1/movies/:id/favorite.
func (h *FavoriteHandler) Add(c echo.Context) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid movie id")
	}
	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
		return jsonError(c, err)
	}
	if err := h.Favorites.Add(ctx, actor.ID, movieID); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Remove handles DELETE /v1/movies/:id/favorite.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid movie id")
	}
	if err := h.Favorites.Remove(c.Request().Context(), actor.ID, movieID); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/my-favorites.
func (h *FavoriteHandler) List(c echo.Context) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	out, err := h.Favorites.ListByUser(c.Request().Context(), actor.ID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
