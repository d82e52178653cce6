package model

// CalendarPage is the preventive-maintenance schedule for one month.
type CalendarPage struct {
	Month    int
	Year     int
	Count    int
	Requests []MaintenanceRequest
}
