package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/photogram/internal/api/metrics"
	"github.com/sirpyerre/photogram/internal/api/views"
	"github.com/sirpyerre/photogram/internal/core/domain"
	"github.com/sirpyerre/photogram/internal/core/router"
)

// SessionAuth signs a client in and out.
type SessionAuth interface {
	SignInWithEmailAndPassword(ctx context.Context, clientID, email, password string) (*domain.Identity, error)
	SignOut(ctx context.Context, clientID string) error
}

// SessionHandler handles POST /login and POST /logout.
type SessionHandler struct {
	auth SessionAuth
}

func NewSessionHandler(auth SessionAuth) *SessionHandler {
	return &SessionHandler{auth: auth}
}

type loginRequest struct {
	Email    string `form:"emailAddress" validate:"required,max=254"`
	Password string `form:"password" validate:"required"`
}

// Login signs the client in. On failure the login page is shown again with
// the message and both fields cleared.
func (h *SessionHandler) Login(c echo.Context) error {
	inst, err := ctxInstance(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		metrics.SigninsTotal.WithLabelValues("invalid").Inc()
		return h.loginFailed(c, err.Error())
	}

	_, err = h.auth.SignInWithEmailAndPassword(c.Request().Context(), inst.ClientID, req.Email, req.Password)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			metrics.SigninsTotal.WithLabelValues(authErr.Code).Inc()
			return h.loginFailed(c, authErr.Message)
		}
		metrics.SigninsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.SigninsTotal.WithLabelValues("ok").Inc()
	return c.Redirect(http.StatusSeeOther, router.Dashboard)
}

// Logout signs the client out and returns to the login page.
func (h *SessionHandler) Logout(c echo.Context) error {
	inst, err := ctxInstance(c)
	if err != nil {
		return err
	}
	if err := h.auth.SignOut(c.Request().Context(), inst.ClientID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, router.Login)
}

func (h *SessionHandler) loginFailed(c echo.Context, msg string) error {
	return c.Render(http.StatusUnprocessableEntity, views.PageLogin, views.LoginPage{
		Base:  views.Base{Title: "Login"},
		Error: msg,
	})
}
