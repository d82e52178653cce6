package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/askarbek/maintdesk/internal/model"
)

const requestColumns = `
	id,
	subject,
	description,
	request_type,
	equipment_id,
	category,
	team_id,
	assigned_technician_id,
	scheduled_date,
	duration_hours,
	stage,
	overdue,
	notes,
	created_by,
	created_at,
	updated_at,
	completed_at
`

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, req *model.MaintenanceRequest) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO maintenance_requests (
			id,
			subject,
			description,
			request_type,
			equipment_id,
			category,
			team_id,
			assigned_technician_id,
			scheduled_date,
			duration_hours,
			stage,
			overdue,
			notes,
			created_by,
			created_at,
			updated_at,
			completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		req.ID,
		req.Subject,
		req.Description,
		req.RequestType,
		req.EquipmentID,
		req.Category,
		req.TeamID,
		req.AssignedTechnicianID,
		req.ScheduledDate,
		req.DurationHours,
		req.Stage,
		req.Overdue,
		req.Notes,
		req.CreatedBy,
		req.CreatedAt,
		req.UpdatedAt,
		req.CompletedAt,
	).Error
}

func (r *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MaintenanceRequest, error) {
	var req model.MaintenanceRequest
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+requestColumns+`
		FROM maintenance_requests
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&req).Error
	if err != nil {
		return nil, err
	}
	if req.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &req, nil
}

func (r *RequestRepository) List(ctx context.Context, filter model.RequestFilter) ([]model.MaintenanceRequest, error) {
	baseQuery := `
		SELECT ` + requestColumns + `
		FROM maintenance_requests
		WHERE 1=1
	`
	var (
		filters []string
		args    []interface{}
	)
	if filter.Stage != nil {
		filters = append(filters, "stage = ?")
		args = append(args, *filter.Stage)
	}
	if filter.RequestType != nil {
		filters = append(filters, "request_type = ?")
		args = append(args, *filter.RequestType)
	}
	if filter.EquipmentID != nil {
		filters = append(filters, "equipment_id = ?")
		args = append(args, *filter.EquipmentID)
	}
	if filter.TeamID != nil {
		filters = append(filters, "team_id = ?")
		args = append(args, *filter.TeamID)
	}
	if len(filters) > 0 {
		baseQuery += " AND " + strings.Join(filters, " AND ")
	}
	baseQuery += " ORDER BY created_at DESC"

	requests := []model.MaintenanceRequest{}
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepository) ListOpenByEquipment(ctx context.Context, equipmentID uuid.UUID) ([]model.MaintenanceRequest, error) {
	requests := []model.MaintenanceRequest{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+requestColumns+`
		FROM maintenance_requests
		WHERE equipment_id = ?
			AND stage NOT IN (?, ?)
		ORDER BY created_at DESC
	`, equipmentID, model.StageRepaired, model.StageScrap).Scan(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// ListPreventiveInRange returns preventive requests scheduled within
// [start, end] inclusive, excluding scrapped ones, earliest first.
func (r *RequestRepository) ListPreventiveInRange(ctx context.Context, start, end time.Time) ([]model.MaintenanceRequest, error) {
	requests := []model.MaintenanceRequest{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+requestColumns+`
		FROM maintenance_requests
		WHERE request_type = ?
			AND scheduled_date >= ?
			AND scheduled_date <= ?
			AND stage <> ?
		ORDER BY scheduled_date ASC
	`, model.TypePreventive, start, end, model.StageScrap).Scan(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepository) Update(ctx context.Context, id uuid.UUID, update model.RequestUpdate) error {
	var (
		sets []string
		args []interface{}
	)
	if update.Subject != nil {
		sets = append(sets, "subject = ?")
		args = append(args, *update.Subject)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *update.Notes)
	}
	if update.ScheduledDate != nil {
		sets = append(sets, "scheduled_date = ?")
		args = append(args, *update.ScheduledDate)
	}
	if update.AssignedTechnicianID != nil {
		sets = append(sets, "assigned_technician_id = ?")
		args = append(args, *update.AssignedTechnicianID)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	query := fmt.Sprintf("UPDATE maintenance_requests SET %s WHERE id = ?", strings.Join(sets, ", "))
	return r.db.WithContext(ctx).Exec(query, args...).Error
}

// ApplyStageChange performs the workflow step as one transaction: a stage
// update conditional on the expected prior stage, plus the equipment-scrap
// write when the change carries one. The boolean result reports whether the
// conditional update matched; false means a concurrent writer moved the
// request first (or it no longer exists).
func (r *RequestRepository) ApplyStageChange(ctx context.Context, change model.StageChange) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
			UPDATE maintenance_requests
			SET stage = ?,
				completed_at = ?,
				duration_hours = COALESCE(?, duration_hours),
				overdue = FALSE,
				updated_at = ?
			WHERE id = ? AND stage = ?
		`,
			change.To,
			change.CompletedAt,
			change.DurationHours,
			time.Now().UTC(),
			change.RequestID,
			change.From,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true

		if change.ScrapEquipmentID != nil {
			return tx.Exec(`
				UPDATE equipment
				SET is_scrapped = TRUE, updated_at = ?
				WHERE id = ?
			`, time.Now().UTC(), *change.ScrapEquipmentID).Error
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// Delete removes a request, conditional on it still being NEW so a racing
// transition cannot slip a deletable request past the stage gate.
func (r *RequestRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		DELETE FROM maintenance_requests
		WHERE id = ? AND stage = ?
	`, id, model.StageNew)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
