package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
)

var (
	_ ports.AccountService     = (*AccountService)(nil)
	_ ports.ReservationService = (*ReservationService)(nil)
)

type AccountService struct {
	auth   ports.AuthAPI
	admin  ports.AdminAPI
	logger zerolog.Logger
}

func NewAccountService(auth ports.AuthAPI, admin ports.AdminAPI, logger zerolog.Logger) *AccountService {
	return &AccountService{auth: auth, admin: admin, logger: logger}
}

// Login exchanges credentials for a token, persists it into sess and returns
// the route the caller should land on.
func (s *AccountService) Login(ctx context.Context, sess ports.SessionStarter, creds domain.Credentials, admin bool) (domain.Route, error) {
	login := s.auth.Login
	if admin {
		login = s.auth.LoginAdmin
	}

	token, err := login(ctx, creds)
	if err != nil {
		if errors.Is(err, domain.ErrSessionRejected) || errors.Is(err, domain.ErrForbidden) {
			s.logger.Info().Str("correo", creds.Correo).Bool("admin", admin).Msg("login refused")
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: %w", err)
	}
	if token == "" {
		return "", fmt.Errorf("login: %w: empty token", domain.ErrUpstreamUnavailable)
	}

	sess.Begin(token)
	s.logger.Info().Str("correo", creds.Correo).Bool("admin", admin).Msg("login succeeded")

	if sess.IsAdmin() {
		return domain.RouteAdmin, nil
	}
	return domain.RouteUser, nil
}

// Register creates a standard account.
func (s *AccountService) Register(ctx context.Context, reg domain.Registration) error {
	reg.Admin = false
	if err := checkRegistration(reg); err != nil {
		return err
	}
	if err := s.auth.Register(ctx, reg); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	s.logger.Info().Str("correo", reg.Correo).Msg("account registered")
	return nil
}

// RegisterAdmin creates an administrator. The admin flag is always set,
// whatever the caller sent.
func (s *AccountService) RegisterAdmin(ctx context.Context, reg domain.Registration) error {
	reg.Admin = true
	if err := checkRegistration(reg); err != nil {
		return err
	}
	if err := s.auth.RegisterAdmin(ctx, reg); err != nil {
		return fmt.Errorf("register admin: %w", err)
	}
	s.logger.Info().Str("correo", reg.Correo).Msg("administrator registered")
	return nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.admin.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies a partial edit. An empty password or email is not sent.
func (s *AccountService) UpdateUser(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if upd.Correo != "" && !domain.InstitutionalEmail(upd.Correo) {
		return nil, fmt.Errorf("%w: correo must be institutional", domain.ErrInvalidInput)
	}
	if upd.Contrasena != "" && !domain.PasswordValid(upd.Contrasena) {
		return nil, fmt.Errorf("%w: contrasena does not meet the password policy", domain.ErrInvalidInput)
	}
	user, err := s.admin.UpdateUser(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return user, nil
}

func (s *AccountService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.admin.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func checkRegistration(reg domain.Registration) error {
	if !domain.InstitutionalEmail(reg.Correo) {
		return fmt.Errorf("%w: correo must be institutional", domain.ErrInvalidInput)
	}
	if !domain.PasswordValid(reg.Contrasena) {
		return fmt.Errorf("%w: contrasena does not meet the password policy", domain.ErrInvalidInput)
	}
	return nil
}
