package model

import (
	"time"

	"github.com/google/uuid"
)

// Equipment is a tracked asset that maintenance requests attach to.
// IsScrapped is a one-way flag: once true it never goes back.
type Equipment struct {
	ID               uuid.UUID
	Name             string
	SerialNumber     string
	Category         string
	PurchaseDate     time.Time
	WarrantyExpiry   time.Time
	Department       string
	AssignedEmployee *string
	TeamID           *uuid.UUID
	Location         string
	IsScrapped       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// WarrantyStatus summarizes how much warranty coverage remains.
type WarrantyStatus struct {
	EquipmentID    uuid.UUID
	WarrantyExpiry time.Time
	Expired        bool
	DaysRemaining  int
}
