package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/notify"
	"github.com/iliyamo/event-ticket-reservation/internal/repository"
)

// memEvents is an in-memory event family behaving like ReservationRepo and
// EventRepo together: one mutex plays the part of the event row lock.
type memEvents struct {
	mu           sync.Mutex
	events       map[uuid.UUID]*model.Event
	reservations []*model.Reservation
	listErr      error
	// onCancel runs after each reservation a MarkCancelled call flips.
	onCancel func()
}

func newMemEvents() *memEvents {
	return &memEvents{events: map[uuid.UUID]*model.Event{}}
}

func (m *memEvents) addEvent(name string, capacity int, organizer uuid.UUID) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.events[id] = &model.Event{ID: id, Name: name, Capacity: capacity, IsActive: true, OrganizerID: organizer, StadiumName: name}
	return id
}

func (m *memEvents) activeCount(eventID uuid.UUID) (total, active int) {
	for _, r := range m.reservations {
		if r.EventID != eventID {
			continue
		}
		total++
		if !r.IsCancelled {
			active++
		}
	}
	return total, active
}

func (m *memEvents) Reserve(_ context.Context, studentID, eventID uuid.UUID) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[eventID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !e.IsActive {
		return nil, repository.ErrEventInactive
	}
	total, active := m.activeCount(eventID)
	if e.Capacity-active <= 0 {
		return nil, repository.ErrNoSeatsAvailable
	}
	for _, r := range m.reservations {
		if r.EventID == eventID && r.StudentID == studentID && !r.IsCancelled {
			return nil, repository.ErrAlreadyReserved
		}
	}
	r := &model.Reservation{
		ID:          uuid.New(),
		EventID:     eventID,
		EventName:   e.Name,
		StudentID:   studentID,
		OrganizerID: e.OrganizerID,
		SeatNumber:  repository.SeatLabel(e.StadiumName, total),
		CreatedAt:   time.Now(),
	}
	m.reservations = append(m.reservations, r)
	cp := *r
	return &cp, nil
}

func (m *memEvents) GetByIDReservation(id uuid.UUID) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memEvents) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.ID == id {
			if r.IsCancelled {
				return false, nil
			}
			r.IsCancelled = true
			if m.onCancel != nil {
				m.onCancel()
			}
			return true, nil
		}
	}
	return false, nil
}

func (m *memEvents) ListReservations(f repository.ReservationFilter) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []model.Reservation{}
	for _, r := range m.reservations {
		if f.EventID != nil && r.EventID != *f.EventID {
			continue
		}
		if f.StudentID != nil && r.StudentID != *f.StudentID {
			continue
		}
		if f.ActiveOnly && r.IsCancelled {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (m *memEvents) Availability(_ context.Context, eventID uuid.UUID) (model.Availability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[eventID]
	if !ok {
		return model.Availability{}, repository.ErrNotFound
	}
	_, active := m.activeCount(eventID)
	return model.NewAvailability(eventID, e.Capacity, active), nil
}

func (m *memEvents) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.IsActive = false
	return nil
}

// reservationStore and eventStore expose the two halves of memEvents under
// the method names their interfaces expect.
type reservationStore struct{ *memEvents }

func (s reservationStore) GetByID(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.GetByIDReservation(id)
}

func (s reservationStore) List(_ context.Context, f repository.ReservationFilter) ([]model.Reservation, error) {
	return s.ListReservations(f)
}

type eventStore struct{ *memEvents }

func (s eventStore) Create(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID, e.IsActive = uuid.New(), true
	cp := *e
	s.events[e.ID] = &cp
	return nil
}

func (s eventStore) Update(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *e
	s.events[e.ID] = &cp
	return nil
}

func (s eventStore) GetByID(_ context.Context, id uuid.UUID) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	_, cp.Reserved = s.activeCount(id)
	cp.AvailableSeats = model.SeatsLeft(cp.Capacity, cp.Reserved)
	return &cp, nil
}

func (s eventStore) List(_ context.Context, f repository.EventFilter) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Event{}
	for _, e := range s.events {
		if f.ActiveOnly && !e.IsActive {
			continue
		}
		if f.OrganizerID != nil && e.OrganizerID != *f.OrganizerID {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// memUsers implements UserStore.
type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[uuid.UUID]*model.User{}} }

func (m *memUsers) add(name, role string) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.users[id] = &model.User{ID: id, Name: name, Email: name + "@example.com", Role: role, IsActive: true}
	return id
}

func (m *memUsers) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok, nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = repository.NormalizeEmail(u.Email)
	for _, x := range m.users {
		if x.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.ID = uuid.New()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == repository.NormalizeEmail(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) List(_ context.Context, role string) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.User{}
	for _, u := range m.users {
		if role == "" || u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) ToggleActive(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = !u.IsActive
	return nil
}

func (m *memUsers) SetResetToken(_ context.Context, id uuid.UUID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.ResetToken = token
	}
	return nil
}

func (m *memUsers) ResetPassword(_ context.Context, id uuid.UUID, token, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.ResetToken == "" || u.ResetToken != token {
		return false, nil
	}
	u.PasswordHash, u.ResetToken = hash, ""
	return true, nil
}

// outbox records every email instead of sending it.
type outbox struct {
	mu   sync.Mutex
	sent []notify.Email
	err  error
}

func (o *outbox) Notify(_ context.Context, e notify.Email) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, e)
	return nil
}

func (o *outbox) subjects() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.sent))
	for i, e := range o.sent {
		out[i] = e.Subject
	}
	return out
}

var errBoom = errors.New("boom")
