package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
)

const defaultLogoutWait = 3 * time.Second

type AuthHandler struct {
	accounts   ports.AccountService
	logoutWait time.Duration
}

// NewAuthHandler builds the public auth endpoints. logoutWait bounds the
// logout notification sent to the API.
func NewAuthHandler(accounts ports.AccountService, logoutWait time.Duration) *AuthHandler {
	if logoutWait <= 0 {
		logoutWait = defaultLogoutWait
	}
	return &AuthHandler{accounts: accounts, logoutWait: logoutWait}
}

type landingView struct {
	Authenticated bool         `json:"authenticated"`
	Admin         bool         `json:"admin"`
	Nombre        string       `json:"nombre,omitempty"`
	Next          domain.Route `json:"next,omitempty"`
}

type sessionResponse struct {
	Redirect domain.Route `json:"redirect"`
	Admin    bool         `json:"admin"`
}

type messageResponse struct {
	Message  string       `json:"message"`
	Redirect domain.Route `json:"redirect,omitempty"`
}

// Landing describes the caller's session state for the public landing view.
//
// @Summary      Landing view
// @Tags         auth
// @Produce      json
// @Success      200  {object}  landingView
// @Router       / [get]
func (h *AuthHandler) Landing(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	view := landingView{}
	if sess.IsAuthenticated() {
		view.Authenticated = true
		view.Admin = sess.IsAdmin()
		view.Next = domain.RouteUser
		if view.Admin {
			view.Next = domain.RouteAdmin
		}
		if claims, ok := sess.Claims(); ok {
			view.Nombre = claims.SubjectName
		}
	}
	return c.JSON(http.StatusOK, view)
}

// Login starts a user session.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, false)
}

// LoginAdmin starts an administrator session.
//
// @Summary      Log in as administrator
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login-admin [post]
func (h *AuthHandler) LoginAdmin(c echo.Context) error {
	return h.login(c, true)
}

func (h *AuthHandler) login(c echo.Context, admin bool) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	route, err := h.accounts.Login(c.Request().Context(), sess, req.toDomain(), admin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Redirect: route, Admin: route == domain.RouteAdmin})
}

// Register creates a user account.
//
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	if err := h.accounts.Register(c.Request().Context(), req.toDomain()); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "account registered", Redirect: "/login"})
}

// Logout ends the session. The token is dropped even when the API cannot be
// notified.
//
// @Summary      Log out
// @Tags         auth
// @Success      302
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.logoutWait)
	defer cancel()

	route := sess.Teardown(ctx)
	return c.Redirect(http.StatusFound, string(route))
}
