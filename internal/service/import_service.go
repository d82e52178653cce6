package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/askarbek/maintdesk/internal/model"
)

// ImportRequests bulk-loads requests from parsed spreadsheet rows. This is
// the data-seeding path: rows may carry any stage directly and past
// scheduled dates, since restored history predates the creation gate.
// Equipment must exist (matched by serial number); rows that fail
// validation are skipped and reported, not fatal.
func (s *RequestService) ImportRequests(ctx context.Context, rows []model.RequestImportRow) (*model.ImportResult, error) {
	result := &model.ImportResult{}
	now := time.Now().UTC()

	for _, row := range rows {
		if err := s.importRow(ctx, row, now); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", row.Line, err))
			continue
		}
		result.Imported++
	}

	s.log.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("request import finished")
	return result, nil
}

func (s *RequestService) importRow(ctx context.Context, row model.RequestImportRow, now time.Time) error {
	if row.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if !row.RequestType.IsValid() {
		return fmt.Errorf("unknown request type %q", row.RequestType)
	}
	if !row.Stage.IsValid() {
		return fmt.Errorf("unknown stage %q", row.Stage)
	}
	if row.EquipmentSerial == "" {
		return fmt.Errorf("equipment serial is required")
	}

	equipment, err := s.equipment.GetBySerial(ctx, row.EquipmentSerial)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("equipment with serial %q not found", row.EquipmentSerial)
		}
		return err
	}

	request := &model.MaintenanceRequest{
		ID:            uuid.New(),
		Subject:       row.Subject,
		Description:   row.Description,
		RequestType:   row.RequestType,
		EquipmentID:   equipment.ID,
		Category:      equipment.Category,
		TeamID:        equipment.TeamID,
		ScheduledDate: row.ScheduledDate,
		DurationHours: row.DurationHours,
		Stage:         row.Stage,
		Notes:         row.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if row.Stage.IsTerminal() {
		request.CompletedAt = &now
	}
	request.Overdue = request.ComputeOverdue(now)

	return s.requests.Create(ctx, request)
}
