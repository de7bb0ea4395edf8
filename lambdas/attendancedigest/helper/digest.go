package helper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/infrastructure/communication"
	"technuob.com/atomlift/report"
	"technuob.com/atomlift/utils"
	"technuob.com/atomlift/validation"
)

const (
	xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pageSize = 100
	maxPages = 50
)

type Notifier interface {
	Info(message string) error
	Error(message string) error
}

type Mailer interface {
	SendEmail(ctx context.Context, info *communication.EmailInfo) (string, error)
}

// Archive stores the workbook and returns a reference to it.
type Archive interface {
	Upload(ctx context.Context, name string, body io.Reader) (string, error)
}

type AttendanceLister interface {
	List(ctx context.Context, filter v1.AttendanceFilter) (*v1.AttendancePage, error)
}

// Event is the Lambda input. Date defaults to yesterday (India time) and Days to 1.
type Event struct {
	Date       string   `json:"date"`
	Days       int      `json:"days"`
	Recipients []string `json:"recipients"`
	DryRun     bool     `json:"dryRun"`
}

type Result struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Records     int    `json:"records"`
	Technicians int    `json:"technicianDays"`
	Report      string `json:"report,omitempty"`
	MessageID   string `json:"messageId,omitempty"`
	DryRun      bool   `json:"dryRun"`
}

// Digest collects attendance for a date range and publishes a workbook and a summary.
// Notifier, Mailer and Archive are all optional.
type Digest struct {
	Attendance AttendanceLister
	Notifier   Notifier
	Mailer     Mailer
	Archive    Archive
	Sender     string
	Log        zerolog.Logger
	Now        func() time.Time
}

func (this *Digest) now() time.Time {
	if this.Now != nil {
		return this.Now().In(utils.IndiaTZ)
	}
	return utils.IndiaNow()
}

// Range resolves the event's date window as inclusive YYYY-MM-DD bounds.
func (this *Digest) Range(event Event) (from, to string, err error) {
	days := event.Days
	if days <= 0 {
		days = 1
	}
	end := utils.DateOf(this.now()).AddDate(0, 0, -1)
	if event.Date != "" {
		parsed, err := validation.ParseDate(event.Date)
		if err != nil {
			return "", "", fmt.Errorf("date %q: %w", event.Date, err)
		}
		end = utils.DateOf(parsed)
	}
	start := end.AddDate(0, 0, -(days - 1))
	return start.Format(utils.DateLayout), end.Format(utils.DateLayout), nil
}

func (this *Digest) fetch(ctx context.Context, from, to string) ([]v1.AttendanceRecord, error) {
	var records []v1.AttendanceRecord
	for page := 1; page <= maxPages; page++ {
		res, err := this.Attendance.List(ctx, v1.AttendanceFilter{
			StartDate: from,
			EndDate:   to,
			Page:      page,
			PageSize:  pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("list attendance page %d: %w", page, err)
		}
		records = append(records, res.Results...)
		if res.Next == nil || len(res.Results) == 0 {
			return records, nil
		}
	}
	this.Log.Warn().Int("pages", maxPages).Msg("attendance listing truncated")
	return records, nil
}

func (this *Digest) Run(ctx context.Context, event Event) (*Result, error) {
	from, to, err := this.Range(event)
	if err != nil {
		return nil, err
	}
	for _, addr := range event.Recipients {
		if msg := validation.GetEmailError(addr); msg != "" {
			return nil, fmt.Errorf("recipient %q: %s", addr, msg)
		}
	}
	if len(event.Recipients) > 0 && this.Mailer != nil && this.Sender == "" {
		return nil, errors.New("report.sender must be configured to mail the digest")
	}

	log := this.Log.With().Str("from", from).Str("to", to).Logger()
	records, err := this.fetch(ctx, from, to)
	if err != nil {
		this.alert(log, fmt.Sprintf("Attendance digest %s..%s failed: %v", from, to, err))
		return nil, err
	}
	days := GroupRecords(records)
	result := &Result{From: from, To: to, Records: len(records), Technicians: len(days), DryRun: event.DryRun}
	log.Info().Int("records", len(records)).Int("technician_days", len(days)).Msg("attendance collected")

	var workbook bytes.Buffer
	if err := report.WriteAttendanceXLSX(&workbook, records); err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	if event.DryRun {
		return result, nil
	}

	name := fmt.Sprintf("attendance-%s_%s.xlsx", from, to)
	if this.Archive != nil {
		ref, err := this.Archive.Upload(ctx, name, bytes.NewReader(workbook.Bytes()))
		if err != nil {
			this.alert(log, fmt.Sprintf("Attendance digest %s..%s: upload failed: %v", from, to, err))
			return nil, err
		}
		result.Report = ref
	}

	summary := Summary(days, from, to)
	if this.Mailer != nil && len(event.Recipients) > 0 {
		id, err := this.Mailer.SendEmail(ctx, &communication.EmailInfo{
			From:    this.Sender,
			To:      event.Recipients,
			Subject: "Attendance " + from + " to " + to,
			Text:    summary,
			Attachments: []communication.Attachment{
				{Filename: name, ContentType: xlsxType, Content: workbook.Bytes()},
			},
		})
		if err != nil {
			this.alert(log, fmt.Sprintf("Attendance digest %s..%s: mail failed: %v", from, to, err))
			return nil, err
		}
		result.MessageID = id
	}

	if this.Notifier != nil {
		if err := this.Notifier.Info(summary); err != nil {
			log.Warn().Err(err).Msg("post digest summary")
		}
	}
	return result, nil
}

func (this *Digest) alert(log zerolog.Logger, message string) {
	log.Error().Msg(message)
	if this.Notifier == nil {
		return
	}
	if err := this.Notifier.Error(message); err != nil {
		log.Warn().Err(err).Msg("post digest failure")
	}
}
