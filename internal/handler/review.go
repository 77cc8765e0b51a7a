package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/cinema-booking/internal/middleware"
	"github.com/avdeyev/cinema-booking/internal/model"
	"github.com/avdeyev/cinema-booking/internal/repository"
)

// ReviewHandler serves movie reviews.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Movies  *repository.MovieRepo
}

// Create handles POST /v1/movies/:id/reviews.  One review per user per
// movie; a second attempt is a 409.
func (h *ReviewHandler) Create(c echo.Context) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid movie id")
	}
	var body struct {
		Rating uint8  `json:"rating"`
		Title  string `json:"title"`
		Text   string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	rev := &model.Review{
		MovieID: movieID,
		UserID:  actor.ID,
		Rating:  body.Rating,
		Title:   strings.TrimSpace(body.Title),
		Text:    strings.TrimSpace(body.Text),
	}
	if err := rev.Validate(); err != nil {
		return badRequest(c, "rating must be 1..10, title at least 3 chars, text at least 10 chars")
	}
	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
		return jsonError(c, err)
	}
	if err := h.Reviews.Create(ctx, rev); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, rev)
}

// ListByMovie handles GET /v1/movies/:id/reviews.
func (h *ReviewHandler) ListByMovie(c echo.Context) error {
	movieID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid movie id")
	}
	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
		return jsonError(c, err)
	}
	out, err := h.Reviews.ListByMovie(ctx, movieID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /v1/reviews/:id.  Authors delete their own
// reviews, admins any.
func (h *ReviewHandler) Delete(c echo.Context) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid review id")
	}
	ctx := c.Request().Context()
	rev, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		return jsonError(c, err)
	}
	if !actor.CanActOn(rev.UserID) {
		return jsonError(c, model.ErrForbidden)
	}
	if err := h.Reviews.Delete(ctx, id); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
