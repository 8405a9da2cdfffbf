package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-stock-insight/pkg/common"
)

// writeError maps domain errors onto HTTP status codes. Missing data and
// missing records are 404, upstream throttling is 429, everything else is 500.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case common.IsNoData(err), common.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrRateLimited):
		status = http.StatusTooManyRequests
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
