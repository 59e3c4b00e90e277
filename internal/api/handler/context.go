package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/photogram/internal/api/middleware"
	"github.com/sirpyerre/photogram/internal/core/session"
)

// ctxInstance returns the client instance injected by the Client middleware.
// A missing instance means the route was registered without it.
func ctxInstance(c echo.Context) (*session.Instance, error) {
	inst, _ := c.Get(middleware.InstanceKey).(*session.Instance)
	if inst == nil || inst.Context == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "client instance missing")
	}
	return inst, nil
}
