package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scatch/internal/catalog"
	"github.com/Skotchmaster/scatch/internal/logging"
	"github.com/Skotchmaster/scatch/internal/service"
)

type ShopHandler struct {
	Svc *service.CatalogService
}

// Shop lists the catalog for the storefront, filtered and ordered by the
// query string.
func (h *ShopHandler) Shop(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop")

	f := catalog.ParseFilter(c.QueryParams())

	products, err := h.Svc.Shop(ctx, f)
	if err != nil {
		l.Error("shop_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"flash": errorFlash("failed to load products")})
	}

	return c.JSON(http.StatusOK, echo.Map{"products": products})
}
