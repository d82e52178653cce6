package model

import (
	"time"

	"github.com/google/uuid"
)

// MaintenanceTeam groups technicians. A technician belongs to at most
// one team.
type MaintenanceTeam struct {
	ID          uuid.UUID
	Name        string
	Technicians []uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *MaintenanceTeam) HasTechnician(id uuid.UUID) bool {
	for _, tech := range t.Technicians {
		if tech == id {
			return true
		}
	}
	return false
}
