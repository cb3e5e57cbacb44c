package ports

import (
	"context"

	"github.com/upslab/labportal/internal/core/domain"
)

// AuthAPI is the remote authentication service.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (string, error)
	LoginAdmin(ctx context.Context, creds domain.Credentials) (string, error)
	Register(ctx context.Context, reg domain.Registration) error
	RegisterAdmin(ctx context.Context, reg domain.Registration) error
	// Logout is best-effort: callers must not depend on it succeeding.
	Logout(ctx context.Context) error
}

// LaboratoryAPI is the end-user reservation API.
type LaboratoryAPI interface {
	CreateReservation(ctx context.Context, req domain.ReservationRequest) (*domain.Reservation, error)
	ListReservations(ctx context.Context) ([]domain.Reservation, error)
}

// AdminAPI is the administrator CRUD API.
type AdminAPI interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error

	ListReservations(ctx context.Context) ([]domain.Reservation, error)
	UpdateReservation(ctx context.Context, id int64, req domain.ReservationRequest) (*domain.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
}
