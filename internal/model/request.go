package model

import (
	"time"

	"github.com/google/uuid"
)

// Stage is the kanban workflow status of a maintenance request.
type Stage string

const (
	StageNew        Stage = "NEW"
	StageInProgress Stage = "IN_PROGRESS"
	StageRepaired   Stage = "REPAIRED"
	StageScrap      Stage = "SCRAP"
)

// stageTransitions defines the permitted workflow moves. REPAIRED and
// SCRAP are terminal.
var stageTransitions = map[Stage][]Stage{
	StageNew:        {StageInProgress, StageScrap},
	StageInProgress: {StageRepaired, StageScrap},
	StageRepaired:   {},
	StageScrap:      {},
}

func (s Stage) IsValid() bool {
	switch s {
	case StageNew, StageInProgress, StageRepaired, StageScrap:
		return true
	default:
		return false
	}
}

func (s Stage) IsTerminal() bool {
	return s == StageRepaired || s == StageScrap
}

// AllowedTargets returns the stages reachable from s. The slice is empty
// for terminal stages and unknown values.
func (s Stage) AllowedTargets() []Stage {
	targets := stageTransitions[s]
	out := make([]Stage, len(targets))
	copy(out, targets)
	return out
}

// CanTransitionTo reports whether moving from s to target is a legal
// workflow step.
func (s Stage) CanTransitionTo(target Stage) bool {
	for _, allowed := range stageTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// RequestType distinguishes reactive repairs from scheduled maintenance.
type RequestType string

const (
	TypeCorrective RequestType = "CORRECTIVE"
	TypePreventive RequestType = "PREVENTIVE"
)

func (t RequestType) IsValid() bool {
	return t == TypeCorrective || t == TypePreventive
}

// MaintenanceRequest is a repair or preventive-maintenance ticket attached
// to a piece of equipment. Category and TeamID are snapshots taken from the
// equipment at creation time and are never re-synchronized.
type MaintenanceRequest struct {
	ID                   uuid.UUID
	Subject              string
	Description          string
	RequestType          RequestType
	EquipmentID          uuid.UUID
	Category             string
	TeamID               *uuid.UUID
	AssignedTechnicianID *uuid.UUID
	ScheduledDate        *time.Time
	DurationHours        *float64
	Stage                Stage
	Overdue              bool
	Notes                string
	CreatedBy            *uuid.UUID
	CreatedAt            time.Time
	UpdatedAt            time.Time
	CompletedAt          *time.Time
}

// ComputeOverdue derives the overdue flag: a preventive request whose
// scheduled date has passed without reaching REPAIRED (or SCRAP) is overdue.
func (r *MaintenanceRequest) ComputeOverdue(today time.Time) bool {
	if r.RequestType != TypePreventive || r.ScheduledDate == nil {
		return false
	}
	if r.Stage == StageRepaired || r.Stage == StageScrap {
		return false
	}
	return DateOnly(*r.ScheduledDate).Before(DateOnly(today))
}

func (r *MaintenanceRequest) IsClosed() bool {
	return r.Stage.IsTerminal()
}

// DateOnly truncates a timestamp to midnight UTC so scheduling rules
// compare calendar days, not instants.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
