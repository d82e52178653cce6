package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/askarbek/maintdesk/internal/model"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, team *model.MaintenanceTeam) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO maintenance_teams (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, team.ID, team.Name, team.CreatedAt, team.UpdatedAt).Error
}

func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MaintenanceTeam, error) {
	var row struct {
		ID        uuid.UUID
		Name      string
		CreatedAt time.Time
		UpdatedAt time.Time
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, created_at, updated_at
		FROM maintenance_teams
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	technicians := []uuid.UUID{}
	err = r.db.WithContext(ctx).Raw(`
		SELECT technician_id
		FROM team_technicians
		WHERE team_id = ?
		ORDER BY added_at ASC
	`, id).Scan(&technicians).Error
	if err != nil {
		return nil, err
	}

	return &model.MaintenanceTeam{
		ID:          row.ID,
		Name:        row.Name,
		Technicians: technicians,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]model.MaintenanceTeam, error) {
	var rows []struct {
		ID        uuid.UUID
		Name      string
		CreatedAt time.Time
		UpdatedAt time.Time
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, created_at, updated_at
		FROM maintenance_teams
		ORDER BY name ASC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	teams := make([]model.MaintenanceTeam, 0, len(rows))
	for _, row := range rows {
		technicians := []uuid.UUID{}
		err = r.db.WithContext(ctx).Raw(`
			SELECT technician_id
			FROM team_technicians
			WHERE team_id = ?
			ORDER BY added_at ASC
		`, row.ID).Scan(&technicians).Error
		if err != nil {
			return nil, err
		}
		teams = append(teams, model.MaintenanceTeam{
			ID:          row.ID,
			Name:        row.Name,
			Technicians: technicians,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return teams, nil
}

func (r *TeamRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE maintenance_teams
		SET name = ?, updated_at = ?
		WHERE id = ?
	`, name, time.Now().UTC(), id).Error
}

func (r *TeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM team_technicians WHERE team_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM maintenance_teams WHERE id = ?`, id).Error
	})
}

func (r *TeamRepository) AddTechnician(ctx context.Context, teamID, technicianID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO team_technicians (team_id, technician_id, added_at)
		VALUES (?, ?, ?)
	`, teamID, technicianID, time.Now().UTC()).Error
}

func (r *TeamRepository) RemoveTechnician(ctx context.Context, teamID, technicianID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		DELETE FROM team_technicians
		WHERE team_id = ? AND technician_id = ?
	`, teamID, technicianID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// TeamOfTechnician returns the team the technician belongs to, or nil.
// Membership is exclusive: the technician_id column is unique.
func (r *TeamRepository) TeamOfTechnician(ctx context.Context, technicianID uuid.UUID) (*uuid.UUID, error) {
	var teamID uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
		SELECT team_id
		FROM team_technicians
		WHERE technician_id = ?
		LIMIT 1
	`, technicianID).Scan(&teamID).Error
	if err != nil {
		return nil, err
	}
	if teamID == uuid.Nil {
		return nil, nil
	}
	return &teamID, nil
}
