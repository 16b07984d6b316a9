package httpserver

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scatch/internal/service"
	"github.com/Skotchmaster/scatch/internal/tokens"
)

type AuthMiddleware struct {
	Tokens *service.TokenService
}

// RequireUser resolves the session from the access cookie. An expired access
// token with a still-valid stored refresh token is rotated transparently and
// both cookies are reset.
func (m *AuthMiddleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuth(next, false)
}

func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuth(next, true)
}

func (m *AuthMiddleware) requireAuth(next echo.HandlerFunc, adminOnly bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie(accessCookieName)
		if err != nil || accessCookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.Tokens.JWTSecret)
		if err == nil {
			return m.proceed(c, next, claims, adminOnly)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		refreshCookie, rErr := c.Cookie(refreshCookieName)
		if rErr != nil || refreshCookie.Value == "" {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}

		pair, rotErr := m.Tokens.RotateToken(c.Request().Context(), refreshCookie.Value)
		if rotErr != nil {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
		}

		c.SetCookie(CreateCookie(accessCookieName, pair.AccessToken, "/", pair.AccessExp))
		c.SetCookie(CreateCookie(refreshCookieName, pair.RefreshToken, "/", pair.RefreshExp))

		newClaims, pErr := tokens.AccessClaimsFromToken(pair.AccessToken, m.Tokens.JWTSecret)
		if pErr != nil {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		return m.proceed(c, next, newClaims, adminOnly)
	}
}

func (m *AuthMiddleware) proceed(c echo.Context, next echo.HandlerFunc, claims *tokens.AccessClaims, adminOnly bool) error {
	if adminOnly && claims.Role != "admin" {
		return echo.NewHTTPError(http.StatusForbidden, "admin access required")
	}

	id, err := tokens.UserID(claims.Subject)
	if err != nil {
		clearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}

	c.Set("userID", id)
	c.Set("role", claims.Role)
	return next(c)
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(DeleteCookie(accessCookieName, "/"))
	c.SetCookie(DeleteCookie(refreshCookieName, "/"))
}

func getUserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok {
		return 0, errors.New("unauthorized")
	}
	return id, nil
}
