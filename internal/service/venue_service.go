package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/repository"
)

type StadiumStore interface {
	Create(ctx context.Context, st *model.Stadium) error
	Update(ctx context.Context, st *model.Stadium) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Stadium, error)
	List(ctx context.Context) ([]model.Stadium, error)
}

type SportStore interface {
	Create(ctx context.Context, sp *model.Sport) error
	Update(ctx context.Context, sp *model.Sport) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sport, error)
	List(ctx context.Context) ([]model.Sport, error)
}

type TeamStore interface {
	Create(ctx context.Context, t *model.Team) error
	Update(ctx context.Context, t *model.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Team, error)
	List(ctx context.Context, sportID *uuid.UUID) ([]model.Team, error)
}

// VenueService manages the stadiums, sports and teams sport events refer to.
type VenueService struct {
	stadiums StadiumStore
	sports   SportStore
	teams    TeamStore
}

func NewVenueService(stadiums StadiumStore, sports SportStore, teams TeamStore) *VenueService {
	return &VenueService{stadiums: stadiums, sports: sports, teams: teams}
}

type StadiumInput struct {
	Name     string
	Capacity int
	Address  model.Address
}

func (in StadiumInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("stadium name is required")
	}
	if in.Capacity <= 0 {
		return invalid("stadium capacity must be positive")
	}
	return nil
}

func conflictAs(err error, msg string) error {
	if errors.Is(err, repository.ErrConflict) {
		return alreadyExists(msg)
	}
	return err
}

func (s *VenueService) CreateStadium(ctx context.Context, in StadiumInput) (*model.Stadium, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	st := &model.Stadium{Name: strings.TrimSpace(in.Name), Capacity: in.Capacity, Address: in.Address}
	if err := s.stadiums.Create(ctx, st); err != nil {
		return nil, conflictAs(err, "stadium "+st.Name+" already exists")
	}
	return st, nil
}

func (s *VenueService) UpdateStadium(ctx context.Context, id uuid.UUID, in StadiumInput) (*model.Stadium, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	st, err := s.stadiums.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, EntityStadium)
	}
	st.Name, st.Capacity, st.Address = strings.TrimSpace(in.Name), in.Capacity, in.Address
	if err := s.stadiums.Update(ctx, st); err != nil {
		return nil, conflictAs(orNotFound(err, EntityStadium), "stadium "+st.Name+" already exists")
	}
	return st, nil
}

func (s *VenueService) GetStadium(ctx context.Context, id uuid.UUID) (*model.Stadium, error) {
	st, err := s.stadiums.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, EntityStadium)
	}
	return st, nil
}

func (s *VenueService) ListStadiums(ctx context.Context) ([]model.Stadium, error) {
	return s.stadiums.List(ctx)
}

type SportInput struct {
	Name        string
	Description string
}

func (s *VenueService) CreateSport(ctx context.Context, in SportInput) (*model.Sport, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("sport name is required")
	}
	sp := &model.Sport{Name: name, Description: in.Description}
	if err := s.sports.Create(ctx, sp); err != nil {
		return nil, conflictAs(err, "sport "+name+" already exists")
	}
	return sp, nil
}

func (s *VenueService) UpdateSport(ctx context.Context, id uuid.UUID, in SportInput) (*model.Sport, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("sport name is required")
	}
	sp, err := s.sports.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, EntitySport)
	}
	sp.Name, sp.Description = name, in.Description
	if err := s.sports.Update(ctx, sp); err != nil {
		return nil, conflictAs(orNotFound(err, EntitySport), "sport "+name+" already exists")
	}
	return sp, nil
}

func (s *VenueService) GetSport(ctx context.Context, id uuid.UUID) (*model.Sport, error) {
	sp, err := s.sports.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, EntitySport)
	}
	return sp, nil
}

func (s *VenueService) ListSports(ctx context.Context) ([]model.Sport, error) {
	return s.sports.List(ctx)
}

type TeamInput struct {
	Name    string
	SportID uuid.UUID
}

// CreateTeam requires the sport to exist.
func (s *VenueService) CreateTeam(ctx context.Context, in TeamInput) (*model.Team, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("team name is required")
	}
	sp, err := s.GetSport(ctx, in.SportID)
	if err != nil {
		return nil, err
	}
	t := &model.Team{Name: name, SportID: sp.ID, SportName: sp.Name}
	if err := s.teams.Create(ctx, t); err != nil {
		return nil, conflictAs(err, "team "+name+" already exists for "+sp.Name)
	}
	return t, nil
}

func (s *VenueService) UpdateTeam(ctx context.Context, id uuid.UUID, in TeamInput) (*model.Team, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("team name is required")
	}
	t, err := s.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	sp, err := s.GetSport(ctx, in.SportID)
	if err != nil {
		return nil, err
	}
	t.Name, t.SportID, t.SportName = name, sp.ID, sp.Name
	if err := s.teams.Update(ctx, t); err != nil {
		return nil, conflictAs(orNotFound(err, EntityTeam), "team "+name+" already exists for "+sp.Name)
	}
	return t, nil
}

func (s *VenueService) GetTeam(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	t, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, EntityTeam)
	}
	return t, nil
}

// ListTeams lists every team, or only the teams of sportID when given.
func (s *VenueService) ListTeams(ctx context.Context, sportID *uuid.UUID) ([]model.Team, error) {
	return s.teams.List(ctx, sportID)
}
