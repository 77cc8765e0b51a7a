package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/cinema-booking/internal/model"
	"github.com/avdeyev/cinema-booking/internal/repository"
	"github.com/avdeyev/cinema-booking/internal/service"
)

// AdminHandler serves the catalog and schedule management endpoints,
// all behind the admin role.
type AdminHandler struct {
	Cinemas   *repository.CinemaRepo
	Halls     *repository.HallRepo
	Movies    *repository.MovieRepo
	Scheduler *service.Scheduler
}

// CreateCinema handles POST /v1/admin/cinemas.
func (h *AdminHandler) CreateCinema(c echo.Context) error {
	var body struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return badRequest(c, "name is required")
	}
	cinema := &model.Cinema{Name: name, Address: strings.TrimSpace(body.Address)}
	if err := h.Cinemas.Create(c.Request().Context(), cinema); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, cinema)
}

// CreateHall handles POST /v1/admin/halls.  The seat grid is fixed at
// creation; there is no resize endpoint.
func (h *AdminHandler) CreateHall(c echo.Context) error {
	var body struct {
		CinemaID         uint64 `json:"cinema_id"`
		Name             string `json:"name"`
		TotalRows        uint32 `json:"total_rows"`
		TotalSeatsPerRow uint32 `json:"total_seats_per_row"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	hall := &model.Hall{
		CinemaID:         body.CinemaID,
		Name:             strings.TrimSpace(body.Name),
		TotalRows:        body.TotalRows,
		TotalSeatsPerRow: body.TotalSeatsPerRow,
	}
	if hall.Name == "" {
		return badRequest(c, "name is required")
	}
	if err := hall.ValidateDimensions(); err != nil {
		return badRequest(c, "total_rows and total_seats_per_row must be at least 1")
	}
	if err := h.Halls.Create(c.Request().Context(), hall); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, hall)
}

// CreateMovie handles POST /v1/admin/movies.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		DurationMin uint32 `json:"duration_min"`
		Genres      string `json:"genres"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return badRequest(c, "title is required")
	}
	if body.DurationMin == 0 {
		return badRequest(c, "duration_min must be positive")
	}
	movie := &model.Movie{
		Title:       title,
		Description: body.Description,
		DurationMin: body.DurationMin,
		Genres:      strings.TrimSpace(body.Genres),
	}
	if err := h.Movies.Create(c.Request().Context(), movie); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, movie)
}

// CreateScreening handles POST /v1/admin/screenings.  Overlap
// conflicts on the hall come back as 409.
func (h *AdminHandler) CreateScreening(c echo.Context) error {
	var body struct {
		MovieID        uint64    `json:"movie_id"`
		HallID         uint64    `json:"hall_id"`
		StartsAt       time.Time `json:"starts_at"`
		EndsAt         time.Time `json:"ends_at"`
		BasePriceCents int64     `json:"base_price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	scr, err := h.Scheduler.CreateScreening(c.Request().Context(), service.CreateScreeningInput{
		MovieID:        body.MovieID,
		HallID:         body.HallID,
		StartsAt:       body.StartsAt,
		EndsAt:         body.EndsAt,
		BasePriceCents: body.BasePriceCents,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, scr)
}

// DeactivateScreening handles DELETE /v1/admin/screenings/:id.  Soft
// delete; repeating the call succeeds again.
func (h *AdminHandler) DeactivateScreening(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.Scheduler.DeactivateScreening(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
