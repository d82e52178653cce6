package model

import "time"

// RequestImportRow is one row of a bulk-load spreadsheet. Import is the
// deliberate restore path: it may set any stage directly, bypassing the
// workflow, and is never reachable from the normal transition API.
type RequestImportRow struct {
	Line            int
	Subject         string
	Description     string
	RequestType     RequestType
	EquipmentSerial string
	ScheduledDate   *time.Time
	DurationHours   *float64
	Stage           Stage
	Notes           string
}

// ImportResult reports how a bulk load went, row by row.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []string
}
