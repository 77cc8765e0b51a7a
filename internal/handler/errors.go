// Package handler contains the HTTP layer: thin echo handlers that
// bind requests, call services or repositories and map domain errors
// to status codes.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/cinema-booking/internal/model"
)

// jsonError maps a domain error to its HTTP response.  Validation 400,
// forbidden 403, missing references 404, conflicts 409, storage outage
// 503, anything unknown 500.
func jsonError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, model.ErrInvalidInterval),
		errors.Is(err, model.ErrInvalidPrice),
		errors.Is(err, model.ErrSeatOutOfRange),
		errors.Is(err, model.ErrInvalidTicketType),
		errors.Is(err, model.ErrInvalidReview),
		errors.Is(err, model.ErrScreeningInactive):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, model.ErrForbidden):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, model.ErrHallNotFound),
		errors.Is(err, model.ErrMovieNotFound),
		errors.Is(err, model.ErrScreeningNotFound),
		errors.Is(err, model.ErrTicketNotFound),
		errors.Is(err, model.ErrReviewNotFound),
		errors.Is(err, model.ErrUserNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, model.ErrSeatTaken),
		errors.Is(err, model.ErrOverlap),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrDuplicateReview),
		errors.Is(err, model.ErrEmailTaken):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, model.ErrStorageUnavailable):
		status, msg = http.StatusServiceUnavailable, model.ErrStorageUnavailable.Error()
	}
	return c.JSON(status, echo.Map{"error": msg})
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
