package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/utils"
)

func TestWriteAttendanceXLSX(t *testing.T) {
	records := []v1.AttendanceRecord{
		{
			ID:               2,
			UserDetail:       &v1.AttendanceUserDTO{FirstName: "Ravi", LastName: "Kumar"},
			CheckInTime:      utils.Ptr("2024-03-11T03:30:00Z"),
			CheckOutTime:     utils.Ptr("2024-03-11T12:45:00Z"),
			CheckInLocation:  utils.Ptr("Sunrise Towers"),
			CheckOutLocation: utils.Ptr("Office"),
			WorkDuration:     utils.Ptr(555),
			CheckInNote:      utils.Ptr("lift 3"),
		},
		{
			ID:                  1,
			UserDetail:          &v1.AttendanceUserDTO{FullName: "Ravi Kumar"},
			CheckInDate:         utils.Ptr("2024-03-10"),
			CheckInTime:         utils.Ptr("09:05"),
			WorkDurationDisplay: utils.Ptr("8h 10m"),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAttendanceXLSX(&buf, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{AttendanceSheet}, f.GetSheetList())
	rows, err := f.GetRows(AttendanceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, attendanceHeaders, rows[0])
	assert.Equal(t, []string{"2024-03-10", "Ravi Kumar", "09:05", "", "8h 10m"}, rows[1])
	assert.Equal(t, []string{
		"2024-03-11", "Ravi Kumar", "09:00", "18:15", "9h 15m", "Sunrise Towers", "Office", "lift 3",
	}, rows[2])
}

func TestWriteAttendanceXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAttendanceXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(AttendanceSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
