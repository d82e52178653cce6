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

// RequestStore is the persistence surface the request workflow needs.
type RequestStore interface {
	Create(ctx context.Context, req *model.MaintenanceRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.MaintenanceRequest, error)
	List(ctx context.Context, filter model.RequestFilter) ([]model.MaintenanceRequest, error)
	ListOpenByEquipment(ctx context.Context, equipmentID uuid.UUID) ([]model.MaintenanceRequest, error)
	ListPreventiveInRange(ctx context.Context, start, end time.Time) ([]model.MaintenanceRequest, error)
	Update(ctx context.Context, id uuid.UUID, update model.RequestUpdate) error
	ApplyStageChange(ctx context.Context, change model.StageChange) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// EquipmentLookup is the slice of the equipment collaborator the workflow
// consumes: existence, scrap flag and the snapshot source fields.
type EquipmentLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Equipment, error)
	GetBySerial(ctx context.Context, serial string) (*model.Equipment, error)
}

// TeamLookup resolves teams for the technician-membership gate.
type TeamLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.MaintenanceTeam, error)
}

// CalendarExporter renders a calendar page to a spreadsheet.
type CalendarExporter interface {
	Generate(page model.CalendarPage) ([]byte, error)
}

// WorkOrderGenerator renders a printable work order for one request.
type WorkOrderGenerator interface {
	Generate(doc model.WorkOrderDocument) ([]byte, error)
}

type RequestService struct {
	requests  RequestStore
	equipment EquipmentLookup
	teams     TeamLookup
	exporter  CalendarExporter
	workOrder WorkOrderGenerator
	log       zerolog.Logger
}

func NewRequestService(
	requests RequestStore,
	equipment EquipmentLookup,
	teams TeamLookup,
	exporter CalendarExporter,
	workOrder WorkOrderGenerator,
	log zerolog.Logger,
) *RequestService {
	return &RequestService{
		requests:  requests,
		equipment: equipment,
		teams:     teams,
		exporter:  exporter,
		workOrder: workOrder,
		log:       log,
	}
}

type CreateRequestInput struct {
	Subject              string
	Description          string
	RequestType          model.RequestType
	EquipmentID          uuid.UUID
	ScheduledDate        *time.Time
	AssignedTechnicianID *uuid.UUID
	Notes                string
	CreatedBy            *uuid.UUID
}

// CreateRequest validates the target equipment and the scheduling rule,
// snapshots category and team from the equipment, and opens the request in
// stage NEW. Caller-supplied category/team values are never trusted.
func (s *RequestService) CreateRequest(ctx context.Context, input CreateRequestInput) (*model.MaintenanceRequest, error) {
	if input.Subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	if !input.RequestType.IsValid() {
		return nil, fmt.Errorf("%w: unknown request type %q", ErrInvalidInput, input.RequestType)
	}
	if input.EquipmentID == uuid.Nil {
		return nil, fmt.Errorf("%w: equipment_id is required", ErrInvalidInput)
	}

	equipment, err := s.equipment.GetByID(ctx, input.EquipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}
	if equipment.IsScrapped {
		return nil, ErrEquipmentScrapped
	}

	now := time.Now().UTC()
	if input.ScheduledDate != nil && model.DateOnly(*input.ScheduledDate).Before(model.DateOnly(now)) {
		return nil, ErrPastDate
	}

	if input.AssignedTechnicianID != nil {
		if err := s.checkTechnician(ctx, *input.AssignedTechnicianID, equipment.TeamID); err != nil {
			return nil, err
		}
	}

	request := &model.MaintenanceRequest{
		ID:                   uuid.New(),
		Subject:              input.Subject,
		Description:          input.Description,
		RequestType:          input.RequestType,
		EquipmentID:          equipment.ID,
		Category:             equipment.Category,
		TeamID:               equipment.TeamID,
		AssignedTechnicianID: input.AssignedTechnicianID,
		ScheduledDate:        input.ScheduledDate,
		Stage:                model.StageNew,
		Overdue:              false,
		Notes:                input.Notes,
		CreatedBy:            input.CreatedBy,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) GetRequest(ctx context.Context, id uuid.UUID) (*model.MaintenanceRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.refreshOverdue(request)
	return request, nil
}

func (s *RequestService) ListRequests(ctx context.Context, filter model.RequestFilter) ([]model.MaintenanceRequest, error) {
	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		s.refreshOverdue(&requests[i])
	}
	return requests, nil
}

// ListByEquipment returns the still-open requests attached to a piece of
// equipment, newest first.
func (s *RequestService) ListByEquipment(ctx context.Context, equipmentID uuid.UUID) ([]model.MaintenanceRequest, error) {
	requests, err := s.requests.ListOpenByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		s.refreshOverdue(&requests[i])
	}
	return requests, nil
}

// UpdateRequest applies free-form field edits. Stage is not editable here;
// it only moves through TransitionStage.
func (s *RequestService) UpdateRequest(ctx context.Context, id uuid.UUID, update model.RequestUpdate) (*model.MaintenanceRequest, error) {
	request, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.ScheduledDate != nil {
		now := time.Now().UTC()
		if model.DateOnly(*update.ScheduledDate).Before(model.DateOnly(now)) {
			return nil, ErrPastDate
		}
	}
	if update.AssignedTechnicianID != nil {
		if err := s.checkTechnician(ctx, *update.AssignedTechnicianID, request.TeamID); err != nil {
			return nil, err
		}
	}

	if err := s.requests.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.GetRequest(ctx, id)
}

// TransitionStage moves a request through the kanban workflow. Moving to
// REPAIRED requires positive duration hours; moving to SCRAP marks the
// referenced equipment scrapped in the same unit of work. The stage write is
// conditional on the observed prior stage, so of two racing transitions out
// of the same stage exactly one succeeds.
func (s *RequestService) TransitionStage(ctx context.Context, id uuid.UUID, target model.Stage, durationHours *float64) (*model.MaintenanceRequest, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, target)
	}

	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !request.Stage.CanTransitionTo(target) {
		return nil, &InvalidTransitionError{
			From:    request.Stage,
			To:      target,
			Allowed: request.Stage.AllowedTargets(),
		}
	}

	change := model.StageChange{
		RequestID: id,
		From:      request.Stage,
		To:        target,
	}
	switch target {
	case model.StageRepaired:
		if durationHours == nil || *durationHours <= 0 {
			return nil, ErrDurationRequired
		}
		now := time.Now().UTC()
		change.CompletedAt = &now
		change.DurationHours = durationHours
	case model.StageScrap:
		now := time.Now().UTC()
		change.CompletedAt = &now
		change.ScrapEquipmentID = &request.EquipmentID
	}

	applied, err := s.requests.ApplyStageChange(ctx, change)
	if err != nil {
		return nil, err
	}
	if !applied {
		// A concurrent transition won the race; report against the stage
		// that is actually current now.
		current, err := s.requests.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return nil, &InvalidTransitionError{
			From:    current.Stage,
			To:      target,
			Allowed: current.Stage.AllowedTargets(),
		}
	}

	return s.GetRequest(ctx, id)
}

// DeleteRequest removes a request still in stage NEW.
func (s *RequestService) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if request.Stage != model.StageNew {
		return ErrIllegalDelete
	}

	deleted, err := s.requests.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		// The request moved past NEW (or vanished) between the read and the
		// conditional delete.
		if _, err := s.requests.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return ErrIllegalDelete
	}
	return nil
}

// GetCalendar answers which preventive maintenance is scheduled in the
// given month. Entries dated before today are discarded even if present in
// storage; the creation gate should make that filter a no-op.
func (s *RequestService) GetCalendar(ctx context.Context, month, year int) (*model.CalendarPage, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidCalendarRange)
	}
	if year < 2020 {
		return nil, fmt.Errorf("%w: year must be 2020 or later", ErrInvalidCalendarRange)
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	requests, err := s.requests.ListPreventiveInRange(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	today := model.DateOnly(time.Now().UTC())
	valid := make([]model.MaintenanceRequest, 0, len(requests))
	for _, request := range requests {
		if request.ScheduledDate == nil || model.DateOnly(*request.ScheduledDate).Before(today) {
			continue
		}
		s.refreshOverdue(&request)
		valid = append(valid, request)
	}

	return &model.CalendarPage{
		Month:    month,
		Year:     year,
		Count:    len(valid),
		Requests: valid,
	}, nil
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// ExportCalendar renders the month calendar as a spreadsheet.
func (s *RequestService) ExportCalendar(ctx context.Context, month, year int) (*ExportResult, error) {
	page, err := s.GetCalendar(ctx, month, year)
	if err != nil {
		return nil, err
	}
	content, err := s.exporter.Generate(*page)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("maintenance-calendar-%04d-%02d.xlsx", year, month),
		Content:  content,
	}, nil
}

// BuildWorkOrder renders a printable work order for one request.
func (s *RequestService) BuildWorkOrder(ctx context.Context, id uuid.UUID) (*ExportResult, error) {
	request, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	equipment, err := s.equipment.GetByID(ctx, request.EquipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}

	doc := model.WorkOrderDocument{
		Request:   *request,
		Equipment: *equipment,
	}
	if request.TeamID != nil {
		team, err := s.teams.GetByID(ctx, *request.TeamID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if team != nil {
			doc.TeamName = team.Name
		}
	}

	content, err := s.workOrder.Generate(doc)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("work-order-%s.pdf", request.ID),
		Content:  content,
	}, nil
}

func (s *RequestService) checkTechnician(ctx context.Context, technicianID uuid.UUID, teamID *uuid.UUID) error {
	if teamID == nil {
		return ErrTechnicianNotInTeam
	}
	team, err := s.teams.GetByID(ctx, *teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTechnicianNotInTeam
		}
		return err
	}
	if !team.HasTechnician(technicianID) {
		return ErrTechnicianNotInTeam
	}
	return nil
}

func (s *RequestService) refreshOverdue(request *model.MaintenanceRequest) {
	request.Overdue = request.ComputeOverdue(time.Now().UTC())
}
