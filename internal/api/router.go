package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/upslab/labportal/internal/api/handler"
	"github.com/upslab/labportal/internal/api/middleware"
	"github.com/upslab/labportal/internal/core/ports"
	opshttp "github.com/upslab/labportal/internal/infrastructure/http"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Accounts     ports.AccountService
	Reservations ports.ReservationService
	Session      middleware.SessionConfig
	// Transactions receives one audit entry per request. Optional.
	Transactions middleware.TransactionSink
	LogoutWait   time.Duration
	// Registerer enables per-request HTTP metrics. Optional.
	Registerer prometheus.Registerer
	Ops        opshttp.OpsConfig
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	if deps.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "labportal",
			Subsystem:  "http",
			Registerer: deps.Registerer,
		}))
	}
	e.Use(middleware.AttachSession(deps.Session))
	if deps.Transactions != nil {
		e.Use(middleware.Transactions(deps.Transactions, deps.Session.Clock))
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Accounts, deps.LogoutWait)
	labHandler := handler.NewLaboratoryHandler(deps.Reservations)
	adminHandler := handler.NewAdminHandler(deps.Accounts, deps.Reservations)

	// --- Public routes ---
	e.GET("/", authHandler.Landing)
	e.POST("/login", authHandler.Login)
	e.POST("/login-admin", authHandler.LoginAdmin)
	e.POST("/register", authHandler.Register)
	e.POST("/logout", authHandler.Logout)

	// --- User routes ---
	user := e.Group("/user", middleware.RequireSession(false))
	user.GET("", labHandler.Dashboard)
	user.POST("/reservations", labHandler.CreateReservation)

	// --- Admin routes ---
	admin := e.Group("/admin", middleware.RequireSession(true))
	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.POST("/register-admin", adminHandler.RegisterAdmin)
	admin.GET("/laboratories", adminHandler.ListReservations)
	admin.GET("/laboratories/:id", adminHandler.EditReservation)
	admin.PATCH("/laboratories/:id", adminHandler.UpdateReservation)
	admin.DELETE("/laboratories/:id", adminHandler.DeleteReservation)

	// --- Ops routes (no session required) ---
	opshttp.RegisterOps(e, deps.Ops)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			err := v.Error
			if err == nil {
				err = middleware.HandledError(c)
			}
			ev := log.Info()
			if err != nil {
				ev = log.Warn().Err(err)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
