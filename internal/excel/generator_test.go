package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/askarbek/maintdesk/internal/model"
)

func TestCalendarGenerate(t *testing.T) {
	date := time.Date(2027, time.February, 10, 0, 0, 0, 0, time.UTC)
	teamID := uuid.New()
	page := model.CalendarPage{
		Month: 2,
		Year:  2027,
		Count: 1,
		Requests: []model.MaintenanceRequest{
			{
				ID:            uuid.New(),
				Subject:       "Filter swap",
				Category:      "HVAC",
				RequestType:   model.TypePreventive,
				EquipmentID:   uuid.New(),
				TeamID:        &teamID,
				ScheduledDate: &date,
				Stage:         model.StageNew,
			},
		},
	}

	content, err := NewCalendarGenerator().Generate(page)
	require.NoError(t, err)
	require.NotEmpty(t, content)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	get := func(cell string) string {
		value, err := file.GetCellValue("Calendar", cell)
		require.NoError(t, err)
		return value
	}
	assert.Equal(t, "February 2027", get("B1"))
	assert.Equal(t, "1", get("B2"))
	assert.Equal(t, "Scheduled date", get("A4"))
	assert.Equal(t, "2027-02-10", get("A5"))
	assert.Equal(t, "Filter swap", get("B5"))
	assert.Equal(t, "NEW", get("D5"))
	assert.Equal(t, teamID.String(), get("F5"))
}

func TestCalendarGenerateEmptyMonth(t *testing.T) {
	content, err := NewCalendarGenerator().Generate(model.CalendarPage{Month: 6, Year: 2027})
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	value, err := file.GetCellValue("Calendar", "B2")
	require.NoError(t, err)
	assert.Equal(t, "0", value)
	value, err = file.GetCellValue("Calendar", "A5")
	require.NoError(t, err)
	assert.Empty(t, value)
}
