package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/utils"
)

const AttendanceSheet = "Attendance"

var attendanceHeaders = []string{
	"Date", "Technician", "Check In", "Check Out", "Duration", "Check-in Location", "Check-out Location", "Note",
}

// WriteAttendanceXLSX writes one row per record, oldest day first, to a single-sheet workbook.
func WriteAttendanceXLSX(w io.Writer, records []v1.AttendanceRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), AttendanceSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(AttendanceSheet, "A1", &attendanceHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetRowStyle(AttendanceSheet, 1, 1, bold)
	}

	rows := append([]v1.AttendanceRecord(nil), records...)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date() < rows[j].Date()
	})

	for i, rec := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			rec.Date(),
			technician(&rec),
			clock(rec.CheckInTime),
			clock(rec.CheckOutTime),
			duration(&rec),
			utils.Format(rec.CheckInLocation),
			utils.Format(rec.CheckOutLocation),
			utils.FirstNonEmpty(utils.Format(rec.CheckOutNote), utils.Format(rec.CheckInNote)),
		}
		if err := f.SetSheetRow(AttendanceSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(AttendanceSheet, "A", "A", 12)
	f.SetColWidth(AttendanceSheet, "B", "B", 24)
	f.SetColWidth(AttendanceSheet, "F", "H", 30)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func technician(rec *v1.AttendanceRecord) string {
	if rec.UserDetail == nil {
		return ""
	}
	u := rec.UserDetail
	name := u.FullName
	if name == "" && u.FirstName != "" {
		name = u.FirstName + " " + u.LastName
	}
	return utils.FirstNonEmpty(name, u.Email)
}

// clock renders a timestamp as HH:MM India time. Unparseable values are passed through.
func clock(ts *string) string {
	s := utils.Format(ts)
	t, err := utils.ParseISOTime(s)
	if err != nil {
		return s
	}
	return t.In(utils.IndiaTZ).Format("15:04")
}

func duration(rec *v1.AttendanceRecord) string {
	if d := utils.Format(rec.WorkDurationDisplay); d != "" {
		return d
	}
	if rec.WorkDuration == nil {
		return ""
	}
	m := *rec.WorkDuration
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}
