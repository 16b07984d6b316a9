package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scatch/internal/logging"
	"github.com/Skotchmaster/scatch/internal/mykafka"
	"github.com/Skotchmaster/scatch/internal/service"
)

type AuthHandler struct {
	Svc      *service.AuthService
	Producer *mykafka.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req struct {
		Email    string `json:"email"    form:"email"`
		FullName string `json:"fullname" form:"fullname"`
		Password string `json:"password" form:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"flash": errorFlash("invalid body")})
	}

	res, err := h.Svc.Register(ctx, req.Email, req.FullName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("register_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, echo.Map{"flash": errorFlash("all fields are required")})
		case errors.Is(err, service.ErrUserExists):
			l.Warn("register_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, echo.Map{"flash": errorFlash("you already have an account, please login")})
		default:
			l.Error("register_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"flash": errorFlash("internal error")})
		}
	}

	h.setSessionCookies(c, res)

	publishEvent(c, h.Producer, "user_events", fmt.Sprint(res.User.ID), map[string]any{
		"type":    "user_registered",
		"user_id": res.User.ID,
		"email":   res.User.Email,
	})

	l.Info("user registered", "user_id", res.User.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"flash": successFlash("user registered successfully"),
		"user":  res.User,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"    form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"flash": errorFlash("invalid body")})
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("login_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, echo.Map{"flash": errorFlash("email and password are required")})
		case errors.Is(err, service.ErrInvalidCredentials):
			// one message for unknown email and wrong password
			l.Warn("login_error", "status", 401)
			return c.JSON(http.StatusUnauthorized, echo.Map{"flash": errorFlash("invalid email or password")})
		default:
			l.Error("login_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"flash": errorFlash("internal error")})
		}
	}

	h.setSessionCookies(c, res)

	publishEvent(c, h.Producer, "user_events", fmt.Sprint(res.User.ID), map[string]any{
		"type":    "user_logged_in",
		"user_id": res.User.ID,
		"email":   res.User.Email,
	})

	l.Info("user logged in", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"flash": successFlash("logged in"),
		"user":  res.User,
	})
}

// Logout revokes the refresh token and clears both cookies. The access token
// stays cryptographically valid until it expires.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if refreshCookie, err := c.Cookie(refreshCookieName); err == nil {
		if err := h.Svc.Logout(ctx, refreshCookie.Value); err != nil {
			l.Error("logout_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"flash": errorFlash("internal error")})
		}
	}

	clearAuthCookies(c)

	l.Info("user logged out")
	return c.JSON(http.StatusOK, echo.Map{"flash": successFlash("logged out")})
}

func (h *AuthHandler) setSessionCookies(c echo.Context, res *service.LoginResult) {
	c.SetCookie(CreateCookie(accessCookieName, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(CreateCookie(refreshCookieName, res.RefreshToken, "/", res.RefreshExp))
}
