package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avdeyev/cinema-booking/internal/auth"
	"github.com/avdeyev/cinema-booking/internal/middleware"
	"github.com/avdeyev/cinema-booking/internal/model"
	"github.com/avdeyev/cinema-booking/internal/repository"
)

// AuthHandler serves registration, login and the current-user
// endpoint.
type AuthHandler struct {
	Users      *repository.UserRepo
	JWTSecret  string
	TTLMinutes int
	BcryptCost int
}

// Register handles POST /v1/auth/register.  New accounts always get
// the user role; admins are promoted out of band.
func (h *AuthHandler) Register(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" || !strings.Contains(email, "@") {
		return badRequest(c, "valid email is required")
	}
	if len(body.Password) < 8 {
		return badRequest(c, "password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(body.Password, h.BcryptCost)
	if err != nil {
		return jsonError(c, err)
	}
	u := &model.User{Email: email, PasswordHash: hash, Role: model.RoleUser}
	if err := h.Users.Create(c.Request().Context(), u); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// Login handles POST /v1/auth/login and issues an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))

	u, err := h.Users.GetByEmail(c.Request().Context(), email)
	if err != nil || !auth.VerifyPassword(u.PasswordHash, body.Password) {
		// Same response for unknown email and wrong password.
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := auth.NewAccessToken(h.JWTSecret, u.ID, u.Role, h.TTLMinutes)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
	})
}

// Me handles GET /v1/me.
func (h *AuthHandler) Me(c echo.Context) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), actor.ID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
