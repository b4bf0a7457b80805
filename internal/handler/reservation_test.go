package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	glog "github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticket-reservation/internal/middleware"
	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/notify"
	"github.com/iliyamo/event-ticket-reservation/internal/repository"
	"github.com/iliyamo/event-ticket-reservation/internal/service"
	"github.com/iliyamo/event-ticket-reservation/internal/utils"
)

// oneEvent is a single event with a fixed capacity and its reservations.
type oneEvent struct {
	mu        sync.Mutex
	id        uuid.UUID
	organizer uuid.UUID
	capacity  int
	rows      []model.Reservation
	students  map[uuid.UUID]bool
}

func (s *oneEvent) Exists(_ context.Context, id uuid.UUID) (bool, error) { return s.students[id], nil }

func (s *oneEvent) GetByIDUser(id uuid.UUID) (*model.User, error) {
	if !s.students[id] {
		return nil, repository.ErrNotFound
	}
	return &model.User{ID: id, Email: "s@example.com"}, nil
}

func (s *oneEvent) Reserve(_ context.Context, studentID, eventID uuid.UUID) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if eventID != s.id {
		return nil, repository.ErrNotFound
	}
	active := 0
	for _, r := range s.rows {
		if !r.IsCancelled {
			active++
			if r.StudentID == studentID {
				return nil, repository.ErrAlreadyReserved
			}
		}
	}
	if s.capacity-active <= 0 {
		return nil, repository.ErrNoSeatsAvailable
	}
	r := model.Reservation{ID: uuid.New(), EventID: eventID, StudentID: studentID, OrganizerID: s.organizer,
		SeatNumber: repository.SeatLabel("Hall", len(s.rows))}
	s.rows = append(s.rows, r)
	return &r, nil
}

func (s *oneEvent) GetByID(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *oneEvent) MarkCancelled(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id && !s.rows[i].IsCancelled {
			s.rows[i].IsCancelled = true
			return true, nil
		}
	}
	return false, nil
}

func (s *oneEvent) List(_ context.Context, f repository.ReservationFilter) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Reservation{}
	for _, r := range s.rows {
		if (f.StudentID != nil && r.StudentID != *f.StudentID) || (f.ActiveOnly && r.IsCancelled) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *oneEvent) Availability(context.Context, uuid.UUID) (model.Availability, error) {
	return model.Availability{}, nil
}

type eventUsers struct{ *oneEvent }

func (u eventUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return u.GetByIDUser(id)
}

type silent struct{}

func (silent) Notify(context.Context, notify.Email) error { return nil }

const testSecret = "handler-test"

func newReservationServer(t *testing.T, capacity int) (*echo.Echo, *oneEvent) {
	t.Helper()
	store := &oneEvent{id: uuid.New(), organizer: uuid.New(), capacity: capacity, students: map[uuid.UUID]bool{}}
	logger := glog.New("test")
	logger.SetLevel(glog.OFF)
	svc := service.NewReservationService("general", store, eventUsers{store}, silent{}, logger)
	h := NewReservationHandler(svc)

	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler
	g := e.Group("/v1", middleware.JWTAuth(testSecret))
	g.POST("/general-events/:id/reservations", h.Create)
	g.GET("/general-reservations/:id", h.Get)
	g.DELETE("/general-reservations/:id", h.Cancel)
	return e, store
}

func call(t *testing.T, e *echo.Echo, method, path, body string, id uuid.UUID, role string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, id, role, 5)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, decode(t, rec)
}

func TestReservationRoutes(t *testing.T) {
	e, store := newReservationServer(t, 1)
	ann, bob := uuid.New(), uuid.New()
	store.students[ann], store.students[bob] = true, true
	create := "/v1/general-events/" + store.id.String() + "/reservations"

	rec, r := call(t, e, http.MethodPost, create, "", ann, model.RoleStudent)
	require.Equal(t, http.StatusCreated, rec.Code, r.Message)
	assert.True(t, r.Success)
	assert.Equal(t, service.MsgReservationCreated, r.Message)
	resID := store.rows[0].ID

	rec, r = call(t, e, http.MethodPost, create, "", bob, model.RoleStudent)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "No seats available", r.Message)

	rec, _ = call(t, e, http.MethodGet, "/v1/general-reservations/"+resID.String(), "", bob, model.RoleStudent)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = call(t, e, http.MethodGet, "/v1/general-reservations/"+resID.String(), "", store.organizer, model.RoleOrganizer)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, r = call(t, e, http.MethodDelete, "/v1/general-reservations/"+resID.String(), "", ann, model.RoleStudent)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, r.Success)

	rec, r = call(t, e, http.MethodDelete, "/v1/general-reservations/"+resID.String(), "", ann, model.RoleStudent)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, r.Success)
	assert.Equal(t, service.MsgAlreadyCancelled, r.Message)

	rec, r = call(t, e, http.MethodPost, create, "", bob, model.RoleStudent)
	assert.Equal(t, http.StatusCreated, rec.Code, r.Message)
}

func TestCreateReservationForAnotherStudent(t *testing.T) {
	e, store := newReservationServer(t, 5)
	ann, bob := uuid.New(), uuid.New()
	store.students[ann], store.students[bob] = true, true
	create := "/v1/general-events/" + store.id.String() + "/reservations"
	body := `{"student_id":"` + bob.String() + `"}`

	rec, _ := call(t, e, http.MethodPost, create, body, ann, model.RoleStudent)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, r := call(t, e, http.MethodPost, create, body, uuid.New(), model.RoleAdmin)
	require.Equal(t, http.StatusCreated, rec.Code, r.Message)
	assert.Equal(t, bob, store.rows[0].StudentID)

	rec, r = call(t, e, http.MethodPost, "/v1/general-events/"+uuid.NewString()+"/reservations", "", ann, model.RoleStudent)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Event not found", r.Message)

	rec, r = call(t, e, http.MethodPost, "/v1/general-events/nope/reservations", "", ann, model.RoleStudent)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid id", r.Message)
}

func TestCreateReservationChunkedBody(t *testing.T) {
	e, store := newReservationServer(t, 5)
	bob := uuid.New()
	store.students[bob] = true
	tok, err := utils.NewAccessToken(testSecret, uuid.New(), model.RoleAdmin, 5)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/general-events/"+store.id.String()+"/reservations",
		strings.NewReader(`{"student_id":"`+bob.String()+`"}`))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, store.rows, 1)
	assert.Equal(t, bob, store.rows[0].StudentID)
}

func TestHasBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.False(t, hasBody(req))

	req.ContentLength = -1
	assert.False(t, hasBody(req), "unknown length without a JSON content type")
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	assert.True(t, hasBody(req))

	req.ContentLength = 12
	req.Header.Del(echo.HeaderContentType)
	assert.True(t, hasBody(req))
}
