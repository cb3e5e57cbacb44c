package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
)

// AdminClient exposes the administrator endpoints. Its ListReservations
// targets the global listing rather than the caller's own.
type AdminClient struct {
	*Client
}

var _ ports.AdminAPI = AdminClient{}

// Admin returns the administrator view of c.
func (c *Client) Admin() AdminClient { return AdminClient{Client: c} }

func (a AdminClient) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out struct {
		Usuarios []domain.User `json:"usuarios"`
		Total    int           `json:"total"`
	}
	if err := a.do(ctx, http.MethodGet, "/admin/users", nil, &out); err != nil {
		return nil, err
	}
	if out.Usuarios == nil {
		return []domain.User{}, nil
	}
	return out.Usuarios, nil
}

func (a AdminClient) UpdateUser(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	var out struct {
		Usuario domain.User `json:"usuario"`
	}
	if err := a.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/users/%d", id), upd, &out); err != nil {
		return nil, err
	}
	return &out.Usuario, nil
}

func (a AdminClient) DeleteUser(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d", id), nil, nil)
}

func (a AdminClient) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	return a.listReservations(ctx, "/admin/laboratories")
}

func (a AdminClient) UpdateReservation(ctx context.Context, id int64, req domain.ReservationRequest) (*domain.Reservation, error) {
	var out struct {
		Reserva domain.Reservation `json:"reserva"`
	}
	if err := a.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/laboratories/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out.Reserva, nil
}

func (a AdminClient) DeleteReservation(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/laboratories/%d", id), nil, nil)
}
