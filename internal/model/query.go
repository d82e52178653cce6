package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestFilter narrows request listings. Nil/empty fields are ignored.
type RequestFilter struct {
	Stage       *Stage
	RequestType *RequestType
	EquipmentID *uuid.UUID
	TeamID      *uuid.UUID
}

// RequestUpdate carries a partial edit of a request. Nil fields are left
// untouched. Stage is deliberately absent: stage moves only through the
// workflow transition.
type RequestUpdate struct {
	Subject              *string
	Description          *string
	Notes                *string
	ScheduledDate        *time.Time
	AssignedTechnicianID *uuid.UUID
}

// StageChange is one atomic workflow step: the conditional stage update
// plus, when ScrapEquipmentID is set, the equipment-scrap write in the same
// unit of work.
type StageChange struct {
	RequestID        uuid.UUID
	From             Stage
	To               Stage
	CompletedAt      *time.Time
	DurationHours    *float64
	ScrapEquipmentID *uuid.UUID
}

// EquipmentFilter narrows equipment listings.
type EquipmentFilter struct {
	Department *string
	Scrapped   *bool
	TeamID     *uuid.UUID
	Category   *string
}

// EquipmentUpdate carries a partial edit of an equipment record.
type EquipmentUpdate struct {
	Name             *string
	SerialNumber     *string
	Category         *string
	PurchaseDate     *time.Time
	WarrantyExpiry   *time.Time
	Department       *string
	AssignedEmployee *string
	TeamID           *uuid.UUID
	Location         *string
	IsScrapped       *bool
}
