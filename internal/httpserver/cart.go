package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scatch/internal/logging"
	"github.com/Skotchmaster/scatch/internal/mykafka"
	"github.com/Skotchmaster/scatch/internal/service"
)

type CartHandler struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("get_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, echo.Map{"flash": errorFlash("unauthorized")})
	}

	lines, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"flash": errorFlash("internal error")})
	}

	return c.JSON(http.StatusOK, echo.Map{"cart": lines})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	return h.mutate(c, "cart.add", h.Svc.Add)
}

func (h *CartHandler) Increment(c echo.Context) error {
	return h.mutate(c, "cart.increment", h.Svc.Increment)
}

func (h *CartHandler) Decrement(c echo.Context) error {
	return h.mutate(c, "cart.decrement", h.Svc.Decrement)
}

func (h *CartHandler) Remove(c echo.Context) error {
	return h.mutate(c, "cart.remove", h.Svc.Remove)
}

// mutate runs one cart operation and turns its report into a flash message.
// A no-op report (absent line on increment/decrement) answers 200 with no
// flash, mirroring the uniform redirect of the storefront.
func (h *CartHandler) mutate(c echo.Context, name string, op func(context.Context, uint, uint) (service.CartReport, error)) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	userID, err := getUserID(c)
	if err != nil {
		l.Error("cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, echo.Map{"flash": errorFlash("unauthorized")})
	}

	productID, err := productParam(c)
	if err != nil {
		l.Warn("cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"flash": errorFlash("invalid product id")})
	}

	report, err := op(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("cart_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, echo.Map{"flash": errorFlash("invalid product id")})
		}
		l.Error("cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"flash": errorFlash("internal error")})
	}

	if report.Changed {
		publishEvent(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
			"type":       "cart_" + string(report.Outcome),
			"user_id":    userID,
			"product_id": productID,
		})
	}

	l.Info("cart updated", "outcome", report.Outcome, "product_id", productID)
	return c.JSON(http.StatusOK, echo.Map{
		"flash":   flashForCart(report),
		"outcome": report.Outcome,
	})
}

func flashForCart(report service.CartReport) Flash {
	switch report.Outcome {
	case service.OutcomeAdded:
		return successFlash("added to cart")
	case service.OutcomeIncreased:
		return successFlash("quantity increased")
	case service.OutcomeDecreased:
		return successFlash("quantity decreased")
	case service.OutcomeRemoved:
		return successFlash("removed from cart")
	default:
		return Flash{}
	}
}

func productParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("productid"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid product id %q", c.Param("productid"))
	}
	return uint(id), nil
}
