package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	glog "github.com/labstack/gommon/log"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/notify"
	"github.com/iliyamo/event-ticket-reservation/internal/repository"
)

// UserLookup is the slice of user persistence the reservation flow needs.
type UserLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// ReservationStore persists the reservations of one event family.
// repository.ReservationRepo implements it for any Catalog.
type ReservationStore interface {
	Reserve(ctx context.Context, studentID, eventID uuid.UUID) (*model.Reservation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, f repository.ReservationFilter) ([]model.Reservation, error)
	Availability(ctx context.Context, eventID uuid.UUID) (model.Availability, error)
}

// Messages returned alongside reservation results.
const (
	MsgReservationCreated   = "Successfully created reservation"
	MsgReservationCancelled = "Successfully cancelled reservation"
	MsgAlreadyCancelled     = "Reservation already cancelled"
)

// CancelResult reports the outcome of a cancellation.  Cancelled is false
// when the reservation had already been cancelled, which is not an error.
type CancelResult struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Cancelled     bool      `json:"cancelled"`
	Message       string    `json:"message"`
}

// CascadeResult counts what an event cancellation did to its reservations.
type CascadeResult struct {
	Cancelled        int
	AlreadyCancelled int
}

// ReservationService runs the reservation lifecycle of one event family.
// The sport and general families each get an instance over their own
// store; the rules are identical.
//
// Emails are best-effort: they are sent after the state change is
// committed and a failure is logged, never returned.
type ReservationService struct {
	kind     string
	store    ReservationStore
	users    UserLookup
	notifier notify.Notifier
	log      *glog.Logger
}

func NewReservationService(kind string, store ReservationStore, users UserLookup, notifier notify.Notifier, logger *glog.Logger) *ReservationService {
	if logger == nil {
		logger = glog.New(kind + "-reservations")
	}
	return &ReservationService{kind: kind, store: store, users: users, notifier: notifier, log: logger}
}

// Kind is "sport" or "general".
func (s *ReservationService) Kind() string { return s.kind }

// Create reserves a seat of eventID for studentID.  Checks fail in this
// order: unknown student, unknown event, inactive event, no seat left,
// student already holding a seat.
func (s *ReservationService) Create(ctx context.Context, studentID, eventID uuid.UUID) (*model.Reservation, error) {
	ok, err := s.users.Exists(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("lookup student: %w", err)
	}
	if !ok {
		return nil, notFound(EntityStudent)
	}

	res, err := s.store.Reserve(ctx, studentID, eventID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		return nil, notFound(EntityEvent)
	case errors.Is(err, repository.ErrEventInactive):
		return nil, ErrEventInactive
	case errors.Is(err, repository.ErrNoSeatsAvailable):
		return nil, ErrNoSeatsAvailable
	case errors.Is(err, repository.ErrAlreadyReserved):
		return nil, alreadyExists("already reserved")
	default:
		return nil, fmt.Errorf("reserve: %w", err)
	}

	s.notifyStudent(ctx, res.StudentID, "Reservation created",
		fmt.Sprintf("Your have successfully reserved a seat for event %s", res.EventName))
	return res, nil
}

// Get returns one reservation.
func (s *ReservationService) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, EntityReservation)
	}
	return res, nil
}

// Cancel cancels a reservation on behalf of the system.
func (s *ReservationService) Cancel(ctx context.Context, id uuid.UUID) (CancelResult, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return CancelResult{}, err
	}
	return s.cancel(ctx, res)
}

// CancelAs cancels a reservation after checking that actor may manage it.
func (s *ReservationService) CancelAs(ctx context.Context, actor Actor, id uuid.UUID) (CancelResult, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return CancelResult{}, err
	}
	if !actor.CanManageReservation(res) {
		return CancelResult{}, ErrForbidden
	}
	return s.cancel(ctx, res)
}

func (s *ReservationService) cancel(ctx context.Context, res *model.Reservation) (CancelResult, error) {
	soft := CancelResult{ReservationID: res.ID, Message: MsgAlreadyCancelled}
	if res.IsCancelled {
		return soft, nil
	}
	flipped, err := s.store.MarkCancelled(ctx, res.ID)
	if err != nil {
		return CancelResult{}, fmt.Errorf("cancel reservation: %w", err)
	}
	// another request cancelled it between our read and write
	if !flipped {
		return soft, nil
	}
	s.notifyStudent(ctx, res.StudentID, "Reservation cancelled",
		fmt.Sprintf("Your reservation for event %s has been cancelled", res.EventName))
	return CancelResult{ReservationID: res.ID, Cancelled: true, Message: MsgReservationCancelled}, nil
}

// CancelAllForEvent cancels every reservation of an event, counting the
// ones that were already cancelled instead of failing on them.  A failure
// to load the reservations is reported as ErrReservationsLoad; failures of
// individual cancellations are joined and the rest still proceed.
func (s *ReservationService) CancelAllForEvent(ctx context.Context, eventID uuid.UUID) (CascadeResult, error) {
	list, err := s.store.List(ctx, repository.ReservationFilter{EventID: &eventID})
	if err != nil {
		return CascadeResult{}, fmt.Errorf("%w: %w", ErrReservationsLoad, err)
	}
	var (
		out  CascadeResult
		errs []error
	)
	for i := range list {
		r, err := s.cancel(ctx, &list[i])
		switch {
		case err != nil:
			errs = append(errs, err)
		case r.Cancelled:
			out.Cancelled++
		default:
			out.AlreadyCancelled++
		}
	}
	return out, errors.Join(errs...)
}

func (s *ReservationService) ListByEvent(ctx context.Context, eventID uuid.UUID, activeOnly bool) ([]model.Reservation, error) {
	return s.store.List(ctx, repository.ReservationFilter{EventID: &eventID, ActiveOnly: activeOnly})
}

func (s *ReservationService) ListByStudent(ctx context.Context, studentID uuid.UUID, activeOnly bool) ([]model.Reservation, error) {
	return s.store.List(ctx, repository.ReservationFilter{StudentID: &studentID, ActiveOnly: activeOnly})
}

// Availability reports capacity, active reservations and free seats.
func (s *ReservationService) Availability(ctx context.Context, eventID uuid.UUID) (model.Availability, error) {
	a, err := s.store.Availability(ctx, eventID)
	if err != nil {
		return model.Availability{}, orNotFound(err, EntityEvent)
	}
	return a, nil
}

// notifyStudent emails a student without letting the outcome reach the
// caller.  It detaches from the request context so a client hanging up
// right after the commit does not drop the email.
func (s *ReservationService) notifyStudent(ctx context.Context, studentID uuid.UUID, subject, body string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	u, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		s.log.Warnf("notify %q: load student %s: %v", subject, studentID, err)
		return
	}
	if err := s.notifier.Notify(ctx, notify.Email{To: u.Email, Subject: subject, Body: body}); err != nil {
		s.log.Warnf("notify %q to %s: %v", subject, u.Email, err)
	}
}
