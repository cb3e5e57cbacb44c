package ports

import (
	"context"

	"github.com/upslab/labportal/internal/core/domain"
)

// ReservationService drives laboratory reservations for users and admins.
type ReservationService interface {
	Create(ctx context.Context, caller string, form domain.ReservationForm) (*domain.Reservation, error)
	ListConfirmed(ctx context.Context) ([]domain.ReservationView, error)
	AdminList(ctx context.Context) ([]domain.ReservationView, error)
	LoadForEdit(ctx context.Context, id int64) (*domain.ReservationForm, error)
	Update(ctx context.Context, id int64, form domain.ReservationForm) (*domain.Reservation, error)
	Delete(ctx context.Context, id int64) error
}

// AccountService drives login, registration and account administration.
type AccountService interface {
	Login(ctx context.Context, sess SessionStarter, creds domain.Credentials, admin bool) (domain.Route, error)
	Register(ctx context.Context, reg domain.Registration) error
	RegisterAdmin(ctx context.Context, reg domain.Registration) error
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
