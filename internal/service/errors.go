package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/askarbek/maintdesk/internal/model"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrEquipmentNotFound    = errors.New("equipment not found")
	ErrEquipmentScrapped    = errors.New("cannot create request for scrapped equipment")
	ErrPastDate             = errors.New("scheduled date cannot be in the past")
	ErrIllegalDelete        = errors.New("can only delete maintenance requests with NEW status")
	ErrInvalidCalendarRange = errors.New("invalid calendar range")
	ErrTechnicianNotInTeam  = errors.New("technician does not belong to the assigned maintenance team")
	ErrSerialTaken          = errors.New("equipment with this serial number already exists")
	ErrTechnicianTaken      = errors.New("technician already belongs to a team")
	ErrEquipmentInUse       = errors.New("cannot delete equipment with active maintenance requests")
	ErrCannotUnscrap        = errors.New("cannot unscrap equipment")
	ErrDurationRequired     = errors.New("duration hours must be a positive number to mark a request repaired")
)

// InvalidTransitionError reports an illegal workflow move together with the
// moves that would have been legal, so the client can display them.
type InvalidTransitionError struct {
	From    model.Stage
	To      model.Stage
	Allowed []model.Stage
}

func (e *InvalidTransitionError) Error() string {
	allowed := "None"
	if len(e.Allowed) > 0 {
		names := make([]string, len(e.Allowed))
		for i, s := range e.Allowed {
			names[i] = string(s)
		}
		allowed = strings.Join(names, ", ")
	}
	return fmt.Sprintf("invalid status transition from %s to %s. Valid transitions: %s", e.From, e.To, allowed)
}
