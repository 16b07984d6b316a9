package httpserver

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scatch/internal/logging"
	"github.com/Skotchmaster/scatch/internal/service/search"
	"github.com/Skotchmaster/scatch/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search")

	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"flash": errorFlash("query is required")})
	}
	if h.ES == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"flash": errorFlash("search is unavailable")})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, limit := util.Calculate(page, size)

	total, products, err := search.Search(ctx, h.ES, h.Index, q, from, limit)
	if err != nil {
		l.Error("search_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"flash": errorFlash("internal error")})
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}
