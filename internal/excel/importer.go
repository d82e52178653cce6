package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/askarbek/maintdesk/internal/model"
)

// Expected import sheet columns, first row is a header:
// subject | description | type | equipment_serial | scheduled_date | duration_hours | stage | notes
const importColumns = 8

// ParseRequestRows reads a bulk-load spreadsheet into import rows. Cell
// parsing errors are reported per row; a malformed workbook is fatal.
func ParseRequestRows(r io.Reader) ([]model.RequestImportRow, []string, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var (
		parsed   []model.RequestImportRow
		problems []string
	)
	for i, cells := range rows {
		if i == 0 {
			continue // header
		}
		line := i + 1
		if isBlank(cells) {
			continue
		}

		row, err := parseRow(line, cells)
		if err != nil {
			problems = append(problems, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		parsed = append(parsed, row)
	}
	return parsed, problems, nil
}

func parseRow(line int, cells []string) (model.RequestImportRow, error) {
	padded := make([]string, importColumns)
	copy(padded, cells)
	for i := range padded {
		padded[i] = strings.TrimSpace(padded[i])
	}

	row := model.RequestImportRow{
		Line:            line,
		Subject:         padded[0],
		Description:     padded[1],
		RequestType:     model.RequestType(strings.ToUpper(padded[2])),
		EquipmentSerial: padded[3],
		Stage:           model.Stage(strings.ToUpper(padded[6])),
		Notes:           padded[7],
	}
	if row.Stage == "" {
		row.Stage = model.StageNew
	}

	if padded[4] != "" {
		date, err := time.Parse("2006-01-02", padded[4])
		if err != nil {
			return row, fmt.Errorf("invalid scheduled_date %q", padded[4])
		}
		row.ScheduledDate = &date
	}
	if padded[5] != "" {
		hours, err := strconv.ParseFloat(padded[5], 64)
		if err != nil || hours <= 0 {
			return row, fmt.Errorf("invalid duration_hours %q", padded[5])
		}
		row.DurationHours = &hours
	}
	return row, nil
}

func isBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
