package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/askarbek/maintdesk/internal/model"
)

// TeamStore is the full persistence surface for maintenance teams.
type TeamStore interface {
	TeamLookup
	Create(ctx context.Context, team *model.MaintenanceTeam) error
	List(ctx context.Context) ([]model.MaintenanceTeam, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddTechnician(ctx context.Context, teamID, technicianID uuid.UUID) error
	RemoveTechnician(ctx context.Context, teamID, technicianID uuid.UUID) (bool, error)
	TeamOfTechnician(ctx context.Context, technicianID uuid.UUID) (*uuid.UUID, error)
}

type TeamService struct {
	teams TeamStore
	log   zerolog.Logger
}

func NewTeamService(teams TeamStore, log zerolog.Logger) *TeamService {
	return &TeamService{teams: teams, log: log}
}

func (s *TeamService) CreateTeam(ctx context.Context, name string) (*model.MaintenanceTeam, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	now := time.Now().UTC()
	team := &model.MaintenanceTeam{
		ID:          uuid.New(),
		Name:        name,
		Technicians: []uuid.UUID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) GetTeam(ctx context.Context, id uuid.UUID) (*model.MaintenanceTeam, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *TeamService) ListTeams(ctx context.Context) ([]model.MaintenanceTeam, error) {
	return s.teams.List(ctx)
}

func (s *TeamService) RenameTeam(ctx context.Context, id uuid.UUID, name string) (*model.MaintenanceTeam, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := s.GetTeam(ctx, id); err != nil {
		return nil, err
	}
	if err := s.teams.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	return s.GetTeam(ctx, id)
}

func (s *TeamService) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetTeam(ctx, id); err != nil {
		return err
	}
	return s.teams.Delete(ctx, id)
}

// AddTechnician enforces exclusive membership: a technician already on any
// team (this one included) is rejected.
func (s *TeamService) AddTechnician(ctx context.Context, teamID, technicianID uuid.UUID) (*model.MaintenanceTeam, error) {
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}

	existing, err := s.teams.TeamOfTechnician(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTechnicianTaken
	}

	if err := s.teams.AddTechnician(ctx, teamID, technicianID); err != nil {
		return nil, err
	}
	return s.GetTeam(ctx, teamID)
}

func (s *TeamService) RemoveTechnician(ctx context.Context, teamID, technicianID uuid.UUID) (*model.MaintenanceTeam, error) {
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}

	removed, err := s.teams.RemoveTechnician(ctx, teamID, technicianID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrNotFound
	}
	return s.GetTeam(ctx, teamID)
}
