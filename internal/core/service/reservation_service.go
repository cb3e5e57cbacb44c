package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
	"github.com/upslab/labportal/pkg/datefmt"
)

const defaultSubmissionWindow = 30 * time.Second

type ReservationService struct {
	lab    ports.LaboratoryAPI
	admin  ports.AdminAPI
	guard  ports.SubmissionGuard
	window time.Duration
	logger zerolog.Logger
}

// NewReservationService wires the reservation flows. guard may be nil, which
// disables double-submit protection.
func NewReservationService(lab ports.LaboratoryAPI, admin ports.AdminAPI, guard ports.SubmissionGuard, window time.Duration, logger zerolog.Logger) *ReservationService {
	if window <= 0 {
		window = defaultSubmissionWindow
	}
	return &ReservationService{lab: lab, admin: admin, guard: guard, window: window, logger: logger}
}

// Create submits a reservation on behalf of caller. The form date is
// converted to wire form before it leaves the portal.
func (s *ReservationService) Create(ctx context.Context, caller string, form domain.ReservationForm) (*domain.Reservation, error) {
	req, err := toRequest(form)
	if err != nil {
		return nil, err
	}
	if req.NumeroEstudiantes < 1 || req.NumeroEstudiantes > domain.MaxStudents {
		return nil, fmt.Errorf("%w: numero_estudiantes must be between 1 and %d", domain.ErrInvalidInput, domain.MaxStudents)
	}

	key := SubmissionKey(caller, req)
	claimed := false
	if s.guard != nil {
		ok, err := s.guard.Claim(ctx, key, s.window)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Msg("submission guard unavailable, continuing without it")
		case !ok:
			s.logger.Info().Str("caller", caller).Str("laboratorio", string(req.Laboratorio)).Msg("duplicate reservation submission")
			return nil, domain.ErrDuplicateSubmission
		default:
			claimed = true
		}
	}

	res, err := s.lab.CreateReservation(ctx, req)
	if err != nil {
		if claimed {
			if relErr := s.guard.Release(context.WithoutCancel(ctx), key); relErr != nil {
				s.logger.Warn().Err(relErr).Msg("release submission key")
			}
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.logger.Info().
		Str("caller", caller).
		Str("laboratorio", string(req.Laboratorio)).
		Str("fecha_prestamo", req.FechaPrestamo).
		Msg("reservation submitted")
	return res, nil
}

// ListConfirmed returns the caller's reservations labelled with the weekday
// of their loan date.
func (s *ReservationService) ListConfirmed(ctx context.Context) ([]domain.ReservationView, error) {
	list, err := s.lab.ListReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return decorate(list), nil
}

// AdminList returns every reservation in the system.
func (s *ReservationService) AdminList(ctx context.Context) ([]domain.ReservationView, error) {
	list, err := s.admin.ListReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin list reservations: %w", err)
	}
	return decorate(list), nil
}

// LoadForEdit finds reservation id and returns it as an edit form, with the
// date back in input form.
func (s *ReservationService) LoadForEdit(ctx context.Context, id int64) (*domain.ReservationForm, error) {
	list, err := s.admin.ListReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin list reservations: %w", err)
	}
	for _, r := range list {
		if r.ID != id {
			continue
		}
		form := domain.ReservationForm{
			ReservationFields: r.ReservationFields,
			FechaPrestamo:     datefmt.ToInputFormat(r.FechaPrestamo),
		}
		form.ApplyEditDefaults()
		return &form, nil
	}
	return nil, fmt.Errorf("reservation %d: %w", id, domain.ErrNotFound)
}

// Update saves an edited reservation. Blank choices fall back to the edit
// form's preselected values.
func (s *ReservationService) Update(ctx context.Context, id int64, form domain.ReservationForm) (*domain.Reservation, error) {
	form.ApplyEditDefaults()
	req, err := toRequest(form)
	if err != nil {
		return nil, err
	}
	res, err := s.admin.UpdateReservation(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update reservation %d: %w", id, err)
	}
	s.logger.Info().Int64("reservation_id", id).Msg("reservation updated")
	return res, nil
}

func (s *ReservationService) Delete(ctx context.Context, id int64) error {
	if err := s.admin.DeleteReservation(ctx, id); err != nil {
		return fmt.Errorf("delete reservation %d: %w", id, err)
	}
	s.logger.Info().Int64("reservation_id", id).Msg("reservation deleted")
	return nil
}

// SubmissionKey derives the de-duplication key of a submission: the same
// caller asking for the same room, date and slot maps to the same key.
func SubmissionKey(caller string, req domain.ReservationRequest) string {
	parts := []string{
		caller,
		string(req.Laboratorio),
		req.FechaPrestamo,
		strings.Join(strings.Fields(req.HorarioUso), ""),
	}
	sum := blake2b.Sum256([]byte(strings.Join(parts, "\x00")))
	return "submission:" + hex.EncodeToString(sum[:16])
}

func toRequest(form domain.ReservationForm) (domain.ReservationRequest, error) {
	wire, err := datefmt.ToWireFormat(form.FechaPrestamo)
	if err != nil {
		var fe *datefmt.FormatError
		if errors.As(err, &fe) {
			return domain.ReservationRequest{}, fmt.Errorf("%w: fecha_prestamo: %s", domain.ErrInvalidInput, fe.Reason)
		}
		return domain.ReservationRequest{}, fmt.Errorf("%w: fecha_prestamo", domain.ErrInvalidInput)
	}
	return domain.ReservationRequest{ReservationFields: form.ReservationFields, FechaPrestamo: wire}, nil
}

func decorate(list []domain.Reservation) []domain.ReservationView {
	out := make([]domain.ReservationView, 0, len(list))
	for _, r := range list {
		out = append(out, domain.ReservationView{
			Reservation: r,
			Weekday:     datefmt.WeekdayLabel(r.FechaPrestamo),
		})
	}
	return out
}
