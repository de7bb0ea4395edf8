package helper

import (
	"fmt"
	"sort"
	"strings"
	"time"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/utils"
)

// TechnicianDay is every attendance record one technician has for one date.
type TechnicianDay struct {
	UserID     int64
	Technician string
	Date       string
	From       *time.Time
	To         *time.Time
	Minutes    int
	Open       bool
	Records    []v1.AttendanceRecord
}

func technicianName(rec *v1.AttendanceRecord) string {
	if u := rec.UserDetail; u != nil {
		name := strings.TrimSpace(u.FullName)
		if name == "" {
			name = strings.TrimSpace(u.FirstName + " " + u.LastName)
		}
		if name = utils.FirstNonEmpty(name, u.Email); name != "" {
			return name
		}
	}
	return fmt.Sprintf("user %d", rec.User)
}

func recordMinutes(rec *v1.AttendanceRecord, in, out *time.Time) int {
	if rec.WorkDuration != nil {
		return *rec.WorkDuration
	}
	if in != nil && out != nil && out.After(*in) {
		return int(out.Sub(*in).Minutes())
	}
	return 0
}

// GroupRecords folds records into one entry per technician and date, ordered by date then name.
// Records without a date are skipped.
func GroupRecords(records []v1.AttendanceRecord) []TechnicianDay {
	grouped := make(map[string]*TechnicianDay)

	for _, r := range records {
		date := r.Date()
		if date == "" {
			continue
		}
		key := fmt.Sprintf("%d|%s", r.User, date)
		day, exists := grouped[key]
		if !exists {
			day = &TechnicianDay{UserID: r.User, Technician: technicianName(&r), Date: date}
			grouped[key] = day
		}

		in, _ := utils.ParseISOTime(utils.Format(r.CheckInTime))
		out, _ := utils.ParseISOTime(utils.Format(r.CheckOutTime))
		if in != nil && (day.From == nil || in.Before(*day.From)) {
			day.From = in
		}
		if out != nil && (day.To == nil || out.After(*day.To)) {
			day.To = out
		}
		if checkedIn, checkedOut := r.Flags(in != nil, out != nil); checkedIn && !checkedOut {
			day.Open = true
		}
		day.Minutes += recordMinutes(&r, in, out)
		day.Records = append(day.Records, r)
	}

	days := make([]TechnicianDay, 0, len(grouped))
	for _, day := range grouped {
		days = append(days, *day)
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].Date != days[j].Date {
			return days[i].Date < days[j].Date
		}
		return days[i].Technician < days[j].Technician
	})
	return days
}

// Summary renders the Slack text for the range [from, to].
func Summary(days []TechnicianDay, from, to string) string {
	period := from
	if to != from {
		period = from + " to " + to
	}
	if len(days) == 0 {
		return fmt.Sprintf("Attendance %s: no records", period)
	}

	var b strings.Builder
	open := 0
	fmt.Fprintf(&b, "Attendance %s: %d technician day(s)", period, len(days))
	for _, day := range days {
		status := fmt.Sprintf("%dh %02dm", day.Minutes/60, day.Minutes%60)
		if day.Open {
			status = "not checked out"
			open++
		}
		fmt.Fprintf(&b, "\n- %s %s: %s", day.Date, day.Technician, status)
	}
	if open > 0 {
		fmt.Fprintf(&b, "\n%d still open", open)
	}
	return b.String()
}
