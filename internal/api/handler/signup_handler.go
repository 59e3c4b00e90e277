package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/photogram/internal/api/metrics"
	"github.com/sirpyerre/photogram/internal/api/views"
	"github.com/sirpyerre/photogram/internal/core/signup"
)

// SignupService runs the account creation flow.
type SignupService interface {
	Submit(ctx context.Context, clientID string, form signup.Form) signup.Result
}

// SignupHandler handles POST /signup.
type SignupHandler struct {
	service SignupService
}

func NewSignupHandler(service SignupService) *SignupHandler {
	return &SignupHandler{service: service}
}

// Submit runs the flow for the posted form. Success redirects to the
// dashboard; anything else re-renders the form with the flow's message and
// whatever fields the flow kept.
func (h *SignupHandler) Submit(c echo.Context) error {
	inst, err := ctxInstance(c)
	if err != nil {
		return err
	}

	var form signup.Form
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	res := h.service.Submit(c.Request().Context(), inst.ClientID, form)
	metrics.SignupsTotal.WithLabelValues(res.Status().String()).Inc()

	if res.RedirectTo != "" {
		return c.Redirect(http.StatusSeeOther, res.RedirectTo)
	}

	kept := res.Form()
	kept.Password = ""
	return c.Render(http.StatusUnprocessableEntity, views.PageSignUp, views.SignUpPage{
		Base:  views.Base{Title: "Sign Up", Viewer: inst.Context.Identity()},
		Form:  kept,
		Error: res.Reason(),
	})
}
