package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
)

// AdminHandler serves the administrator views. Every route is behind the
// admin guard.
type AdminHandler struct {
	accounts     ports.AccountService
	reservations ports.ReservationService
}

func NewAdminHandler(accounts ports.AccountService, reservations ports.ReservationService) *AdminHandler {
	return &AdminHandler{accounts: accounts, reservations: reservations}
}

type usersView struct {
	Usuarios []domain.User `json:"usuarios"`
	Total    int           `json:"total"`
}

type userResponse struct {
	Message string       `json:"message"`
	Usuario *domain.User `json:"usuario,omitempty"`
}

type reservationsView struct {
	Reservas []domain.ReservationView `json:"reservas"`
	Total    int                      `json:"total"`
}

type editView struct {
	ID       int64                  `json:"id"`
	Form     domain.ReservationForm `json:"form"`
	Opciones choiceOptions          `json:"opciones"`
}

// ListUsers
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {object}  usersView
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.accounts.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, usersView{Usuarios: users, Total: len(users)})
}

// UpdateUser applies a partial edit to a user. Blank fields are left as is.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "User ID"
// @Param        body  body      userUpdateRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req userUpdateRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.UpdateUser(c.Request().Context(), id, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "user updated", Usuario: user})
}

// DeleteUser
//
// @Summary      Delete a user
// @Tags         admin
// @Param        id  path  int  true  "User ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.accounts.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RegisterAdmin creates another administrator account.
//
// @Summary      Register an administrator
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/register-admin [post]
func (h *AdminHandler) RegisterAdmin(c echo.Context) error {
	var req registerRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	if err := h.accounts.RegisterAdmin(c.Request().Context(), req.toDomain()); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "administrator registered", Redirect: domain.RouteAdmin})
}

// ListReservations
//
// @Summary      List all reservations
// @Tags         admin
// @Produce      json
// @Success      200  {object}  reservationsView
// @Router       /admin/laboratories [get]
func (h *AdminHandler) ListReservations(c echo.Context) error {
	list, err := h.reservations.AdminList(c.Request().Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []domain.ReservationView{}
	}
	return c.JSON(http.StatusOK, reservationsView{Reservas: list, Total: len(list)})
}

// EditReservation loads a reservation into the edit form.
//
// @Summary      Load a reservation for editing
// @Tags         admin
// @Produce      json
// @Param        id  path      int  true  "Reservation ID"
// @Success      200 {object}  editView
// @Failure      404 {object}  map[string]string
// @Router       /admin/laboratories/{id} [get]
func (h *AdminHandler) EditReservation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	form, err := h.reservations.LoadForEdit(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, editView{ID: id, Form: *form, Opciones: reservationOptions()})
}

// UpdateReservation saves the edit form.
//
// @Summary      Update a reservation
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true  "Reservation ID"
// @Param        body  body      reservationEditRequest  true  "Edit form"
// @Success      200   {object}  reservationResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/laboratories/{id} [patch]
func (h *AdminHandler) UpdateReservation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req reservationEditRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}

	res, err := h.reservations.Update(c.Request().Context(), id, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reservationResponse{Message: "reservation updated", Reserva: res})
}

// DeleteReservation
//
// @Summary      Delete a reservation
// @Tags         admin
// @Param        id  path  int  true  "Reservation ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /admin/laboratories/{id} [delete]
func (h *AdminHandler) DeleteReservation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.reservations.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
