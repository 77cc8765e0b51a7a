package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/cinema-booking/internal/clock"
	"github.com/avdeyev/cinema-booking/internal/repository"
)

// BrowseHandler serves the public, read-only catalog endpoints.  These
// sit behind the response cache.
type BrowseHandler struct {
	Cinemas    *repository.CinemaRepo
	Halls      *repository.HallRepo
	Movies     *repository.MovieRepo
	Screenings *repository.ScreeningRepo
	Tickets    *repository.TicketRepo
	Clock      clock.Clock
}

// ListCinemas handles GET /v1/cinemas.
func (h *BrowseHandler) ListCinemas(c echo.Context) error {
	out, err := h.Cinemas.List(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListHalls handles GET /v1/cinemas/:id/halls.
func (h *BrowseHandler) ListHalls(c echo.Context) error {
	cinemaID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid cinema id")
	}
	out, err := h.Halls.ListByCinema(c.Request().Context(), cinemaID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListMovies handles GET /v1/movies.
func (h *BrowseHandler) ListMovies(c echo.Context) error {
	out, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GetMovie handles GET /v1/movies/:id.
func (h *BrowseHandler) GetMovie(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid movie id")
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// ListScreenings handles GET /v1/movies/:id/screenings: upcoming
// active screenings of a movie.  The ?from query overrides the
// default "now" lower bound (RFC 3339).
func (h *BrowseHandler) ListScreenings(c echo.Context) error {
	movieID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid movie id")
	}
	if _, err := h.Movies.GetByID(c.Request().Context(), movieID); err != nil {
		return jsonError(c, err)
	}
	from := h.Clock.Now()
	if raw := c.QueryParam("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(c, "from must be RFC 3339")
		}
		from = parsed.UTC()
	}
	out, err := h.Screenings.ListByMovie(c.Request().Context(), movieID, from)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GetScreening handles GET /v1/screenings/:id.
func (h *BrowseHandler) GetScreening(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid screening id")
	}
	s, err := h.Screenings.GetByID(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// seatRef is one taken seat in the availability map.
type seatRef struct {
	Row  uint32 `json:"row"`
	Seat uint32 `json:"seat"`
}

// Seats handles GET /v1/screenings/:id/seats: hall geometry plus the
// seats currently held by non-cancelled tickets.  Advisory only; the
// reserve endpoint is the authority.
func (h *BrowseHandler) Seats(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid screening id")
	}
	ctx := c.Request().Context()

	s, err := h.Screenings.GetByID(ctx, id)
	if err != nil {
		return jsonError(c, err)
	}
	hall, err := h.Halls.GetByID(ctx, s.HallID)
	if err != nil {
		return jsonError(c, err)
	}
	pairs, err := h.Tickets.TakenSeats(ctx, id)
	if err != nil {
		return jsonError(c, err)
	}
	taken := make([]seatRef, 0, len(pairs))
	for _, p := range pairs {
		taken = append(taken, seatRef{Row: p[0], Seat: p[1]})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"screening_id":        s.ID,
		"total_rows":          hall.TotalRows,
		"total_seats_per_row": hall.TotalSeatsPerRow,
		"taken":               taken,
	})
}
