package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/infrastructure/communication"
	"technuob.com/atomlift/report"
	"technuob.com/atomlift/utils"
	"technuob.com/atomlift/validation"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func cmdAttendance(ctx context.Context, a *app, args []string) error {
	return dispatch(ctx, a, args, map[string]command{
		"today":       loggedIn(attendanceToday),
		"checkin":     loggedIn(attendanceCheckIn),
		"workcheckin": loggedIn(attendanceWorkCheckIn),
		"checkout":    loggedIn(attendanceCheckOut),
		"list":        loggedIn(attendanceList),
		"export":      loggedIn(attendanceExport),
	})
}

// loggedIn stops before the tracker refresh, which fails open and would hide the missing session.
func loggedIn(next command) command {
	return func(ctx context.Context, a *app, args []string) error {
		if !a.session.IsLoggedIn() {
			return v1.ErrAuthRequired
		}
		return next(ctx, a, args)
	}
}

func attendanceToday(ctx context.Context, a *app, args []string) error {
	state, err := a.tracker.Refresh(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	row(w, "Status", state)
	if rec := a.tracker.Record(); rec != nil {
		row(w, "Check in", orDash(utils.Format(rec.CheckInTime)))
		row(w, "Location", orDash(utils.Format(rec.CheckInLocation)))
		row(w, "Check out", orDash(utils.Format(rec.CheckOutTime)))
		row(w, "Duration", orDash(utils.Format(rec.WorkDurationDisplay)))
	}
	return w.Flush()
}

func attendanceCheckIn(ctx context.Context, a *app, args []string) error {
	const line = "checkin [-location text] [-note text] [-selfie image]"
	fs := newFlags("checkin")
	location := fs.String("location", "", "where you are")
	note := fs.String("note", "", "note for the record")
	selfie := fs.String("selfie", "", "path to a JPG or PNG selfie")
	if err := parse(fs, args, line); err != nil {
		return err
	}

	input := v1.CheckInInput{Location: *location, Note: *note}
	if *selfie != "" {
		f, err := os.Open(*selfie)
		if err != nil {
			return fmt.Errorf("open selfie: %w", err)
		}
		defer f.Close()
		input.Selfie, input.SelfieName = f, filepath.Base(*selfie)
	}

	if _, err := a.tracker.Refresh(ctx); err != nil {
		return err
	}
	resp, err := a.tracker.CheckIn(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, utils.FirstNonEmpty(resp.Message, "Checked in"))
	return nil
}

func attendanceWorkCheckIn(ctx context.Context, a *app, args []string) error {
	const line = "workcheckin [-note text]"
	fs := newFlags("workcheckin")
	note := fs.String("note", "", "what you are starting on")
	if err := parse(fs, args, line); err != nil {
		return err
	}

	if _, err := a.tracker.Refresh(ctx); err != nil {
		return err
	}
	resp, err := a.tracker.WorkCheckIn(ctx, *note)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, utils.FirstNonEmpty(resp.Message, "Work check-in recorded"))
	return nil
}

func attendanceCheckOut(ctx context.Context, a *app, args []string) error {
	const line = "checkout [-location text] [-note text]"
	fs := newFlags("checkout")
	location := fs.String("location", "", "where you are")
	note := fs.String("note", "", "note for the record")
	if err := parse(fs, args, line); err != nil {
		return err
	}

	if _, err := a.tracker.Refresh(ctx); err != nil {
		return err
	}
	resp, err := a.tracker.CheckOut(ctx, v1.CheckOutInput{Location: *location, Note: *note})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, utils.FirstNonEmpty(resp.Message, "Checked out"))
	if resp.Attendance != nil && resp.Attendance.WorkDurationDisplay != nil {
		fmt.Fprintf(a.out, "Worked %s\n", *resp.Attendance.WorkDurationDisplay)
	}
	return nil
}

// attendanceFilter registers the list filters on fs.
func attendanceFilter(fs *flag.FlagSet) *v1.AttendanceFilter {
	f := &v1.AttendanceFilter{}
	fs.StringVar(&f.Date, "date", "", "a single day, YYYY-MM-DD")
	fs.StringVar(&f.StartDate, "from", "", "first day, YYYY-MM-DD")
	fs.StringVar(&f.EndDate, "to", "", "last day, YYYY-MM-DD")
	fs.StringVar(&f.Q, "q", "", "search text")
	fs.IntVar(&f.Page, "page", 0, "page number")
	fs.IntVar(&f.PageSize, "page-size", 0, "records per page")
	return f
}

func checkFilterDates(f *v1.AttendanceFilter) error {
	for _, d := range []string{f.Date, f.StartDate, f.EndDate} {
		if d == "" {
			continue
		}
		if _, err := validation.ParseDate(d); err != nil {
			return err
		}
	}
	if f.StartDate != "" && f.EndDate != "" {
		if cmp, _ := validation.CompareDates(f.EndDate, f.StartDate); cmp < 0 {
			return errors.New("-to cannot be before -from")
		}
	}
	return nil
}

func attendanceList(ctx context.Context, a *app, args []string) error {
	const line = "list [-date d | -from d -to d] [-q text] [-page n] [-page-size n]"
	fs := newFlags("list")
	filter := attendanceFilter(fs)
	if err := parse(fs, args, line); err != nil {
		return err
	}
	if err := checkFilterDates(filter); err != nil {
		return err
	}

	page, err := a.client.Attendance.List(ctx, *filter)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	row(w, "ID", "DATE", "CHECK IN", "CHECK OUT", "DURATION", "LOCATION")
	for _, rec := range page.Results {
		row(w, rec.ID, orDash(rec.Date()), orDash(utils.Format(rec.CheckInTime)), orDash(utils.Format(rec.CheckOutTime)),
			orDash(utils.Format(rec.WorkDurationDisplay)), orDash(utils.Format(rec.CheckInLocation)))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d record(s)\n", page.Count)
	return nil
}

// attendanceExport writes the filtered records to an XLSX file and optionally mails it through SES.
func attendanceExport(ctx context.Context, a *app, args []string) error {
	const line = "export -o file.xlsx [-from d -to d] [-mail addr,...]"
	fs := newFlags("export")
	filter := attendanceFilter(fs)
	output := fs.String("o", "attendance.xlsx", "output file")
	mailTo := fs.String("mail", "", "comma separated recipients")
	if err := parse(fs, args, line); err != nil {
		return err
	}
	if err := checkFilterDates(filter); err != nil {
		return err
	}
	var recipients []string
	for _, r := range strings.Split(*mailTo, ",") {
		if r = strings.TrimSpace(r); r == "" {
			continue
		}
		if msg := validation.GetEmailError(r); msg != "" {
			return fmt.Errorf("%s: %s", r, msg)
		}
		recipients = append(recipients, r)
	}
	if len(recipients) > 0 && a.cfg.Report.Sender == "" {
		return errors.New("report.sender must be configured to mail exports")
	}

	page, err := a.client.Attendance.List(ctx, *filter)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := report.WriteAttendanceXLSX(&buf, page.Results); err != nil {
		return err
	}
	if err := os.WriteFile(*output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}
	fmt.Fprintf(a.out, "Wrote %d record(s) to %s\n", len(page.Results), *output)

	if len(recipients) == 0 {
		return nil
	}
	mailer, err := communication.ConnectSES(ctx)
	if err != nil {
		return err
	}
	name := a.session.Profile().DisplayName()
	id, err := mailer.SendEmail(ctx, &communication.EmailInfo{
		From:    a.cfg.Report.Sender,
		To:      recipients,
		Subject: "Attendance report for " + name,
		Text:    fmt.Sprintf("Attendance report for %s, %d record(s) attached.", name, len(page.Results)),
		Attachments: []communication.Attachment{{
			Filename:    filepath.Base(*output),
			ContentType: xlsxContentType,
			Content:     buf.Bytes(),
		}},
	})
	if err != nil {
		return err
	}
	a.log.Info().Str("message_id", id).Strs("to", recipients).Msg("attendance report mailed")
	fmt.Fprintf(a.out, "Mailed to %s\n", strings.Join(recipients, ", "))
	return nil
}
