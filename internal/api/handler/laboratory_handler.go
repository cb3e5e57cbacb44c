package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/upslab/labportal/internal/api/metrics"
	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
	"github.com/upslab/labportal/pkg/logger"
)

type LaboratoryHandler struct {
	reservations ports.ReservationService
}

func NewLaboratoryHandler(reservations ports.ReservationService) *LaboratoryHandler {
	return &LaboratoryHandler{reservations: reservations}
}

type dashboardView struct {
	Nombre        string                   `json:"nombre"`
	Form          domain.ReservationForm   `json:"form"`
	Opciones      choiceOptions            `json:"opciones"`
	Reservas      []domain.ReservationView `json:"reservas"`
	ReservasError string                   `json:"reservas_error,omitempty"`
}

type reservationResponse struct {
	Message string              `json:"message"`
	Reserva *domain.Reservation `json:"reserva,omitempty"`
}

// Dashboard renders the user view: a blank reservation form and the caller's
// confirmed reservations. A failed listing still renders the form.
//
// @Summary      User dashboard
// @Tags         laboratory
// @Produce      json
// @Success      200  {object}  dashboardView
// @Failure      302
// @Router       /user [get]
func (h *LaboratoryHandler) Dashboard(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	view := dashboardView{
		Form:     domain.NewReservationForm(),
		Opciones: reservationOptions(),
		Reservas: []domain.ReservationView{},
	}
	if claims, ok := sess.Claims(); ok {
		view.Nombre = claims.SubjectName
	}

	list, err := h.reservations.ListConfirmed(c.Request().Context())
	switch {
	case errors.Is(err, domain.ErrSessionRejected):
		return err
	case err != nil:
		log := logger.Component("laboratory")
		log.Warn().Err(err).Str("identity", sess.Identity()).Msg("list reservations failed")
		view.ReservasError = "could not load your reservations"
	default:
		view.Reservas = list
	}
	return c.JSON(http.StatusOK, view)
}

// CreateReservation submits the reservation form.
//
// @Summary      Submit a reservation
// @Tags         laboratory
// @Accept       json
// @Produce      json
// @Param        body  body      reservationRequest  true  "Reservation form"
// @Success      201   {object}  reservationResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /user/reservations [post]
func (h *LaboratoryHandler) CreateReservation(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req reservationRequest
	if err := bindForm(c, &req); err != nil {
		metrics.ObserveSubmission(err)
		return err
	}

	res, err := h.reservations.Create(c.Request().Context(), sess.Identity(), req.toDomain())
	metrics.ObserveSubmission(err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reservationResponse{Message: "reservation submitted", Reserva: res})
}
