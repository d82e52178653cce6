package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/askarbek/maintdesk/internal/model"
)

type CalendarGenerator struct{}

func NewCalendarGenerator() *CalendarGenerator {
	return &CalendarGenerator{}
}

// Generate renders the month calendar: a summary block followed by one row
// per scheduled preventive request, earliest first.
func (g *CalendarGenerator) Generate(page model.CalendarPage) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Calendar"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Month")
	set("B1", fmt.Sprintf("%s %d", time.Month(page.Month), page.Year))
	set("A2", "Scheduled requests")
	set("B2", page.Count)

	tableRow := 4
	headers := []string{"Scheduled date", "Subject", "Category", "Stage", "Equipment", "Team", "Technician", "Overdue"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, tableRow)
		if err != nil {
			return nil, err
		}
		set(cell, header)
	}

	for i, request := range page.Requests {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), formatDate(request.ScheduledDate))
		set(fmt.Sprintf("B%d", row), request.Subject)
		set(fmt.Sprintf("C%d", row), request.Category)
		set(fmt.Sprintf("D%d", row), string(request.Stage))
		set(fmt.Sprintf("E%d", row), request.EquipmentID.String())
		if request.TeamID != nil {
			set(fmt.Sprintf("F%d", row), request.TeamID.String())
		}
		if request.AssignedTechnicianID != nil {
			set(fmt.Sprintf("G%d", row), request.AssignedTechnicianID.String())
		}
		set(fmt.Sprintf("H%d", row), request.Overdue)
	}

	if err := file.SetColWidth(sheet, "A", "B", 22); err != nil {
		return nil, err
	}
	if err := file.SetColWidth(sheet, "C", "H", 18); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
