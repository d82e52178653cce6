package model

// WorkOrderDocument bundles everything the printable work order shows.
type WorkOrderDocument struct {
	Request   MaintenanceRequest
	Equipment Equipment
	TeamName  string
}
