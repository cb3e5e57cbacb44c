package apiclient

import (
	"context"
	"net/http"

	"github.com/upslab/labportal/internal/core/domain"
)

type reservationList struct {
	Reservas []domain.Reservation `json:"reservas"`
	Total    int                  `json:"total"`
}

func (c *Client) CreateReservation(ctx context.Context, req domain.ReservationRequest) (*domain.Reservation, error) {
	var out struct {
		Solicitud domain.Reservation `json:"solicitud"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/laboratory", req, &out); err != nil {
		return nil, err
	}
	return &out.Solicitud, nil
}

func (c *Client) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	return c.listReservations(ctx, "/auth/laboratory/reservations")
}

func (c *Client) listReservations(ctx context.Context, path string) ([]domain.Reservation, error) {
	var out reservationList
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Reservas == nil {
		return []domain.Reservation{}, nil
	}
	return out.Reservas, nil
}
