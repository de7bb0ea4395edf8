package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/utils"
)

type State int

const (
	NotCheckedIn State = iota
	CheckedIn
	CheckedInAndOut
)

func (s State) String() string {
	switch s {
	case CheckedIn:
		return "checked_in"
	case CheckedInAndOut:
		return "checked_in_and_out"
	}
	return "not_checked_in"
}

var (
	ErrInvalidTransition = errors.New("invalid attendance transition")
	ErrBusy              = errors.New("another attendance action is in progress")
)

// API is the attendance part of the backend. *v1.AttendanceEndpoint implements it.
type API interface {
	Today(ctx context.Context) (*v1.TodayAttendance, error)
	CheckIn(ctx context.Context, input v1.CheckInInput) (*v1.AttendanceActionResponse, error)
	WorkCheckIn(ctx context.Context, note string) (*v1.AttendanceActionResponse, error)
	CheckOut(ctx context.Context, input v1.CheckOutInput) (*v1.AttendanceActionResponse, error)
}

// Notifier receives a short announcement after a successful check-in or check-out.
type Notifier interface {
	Info(message string) error
}

// Derive maps the server's flags to a state. A checked-out flag implies checked in.
func Derive(hasCheckedIn, hasCheckedOut bool) State {
	switch {
	case hasCheckedOut:
		return CheckedInAndOut
	case hasCheckedIn:
		return CheckedIn
	}
	return NotCheckedIn
}

// Tracker follows today's attendance. Within one calendar day (India time) the state only moves
// forward; on a new day it starts over at NotCheckedIn. One action runs at a time.
type Tracker struct {
	api      API
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time

	mu     sync.Mutex
	state  State
	record *v1.AttendanceRecord
	day    string
	busy   bool
}

type Option func(*Tracker)

func WithNotifier(n Notifier) Option {
	return func(t *Tracker) { t.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(api API, log zerolog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		api: api,
		log: log.With().Str("component", "attendance").Logger(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.day = t.today()
	return t
}

func (t *Tracker) today() string {
	return t.now().In(utils.IndiaTZ).Format(utils.DateLayout)
}

// rollover must be called with mu held.
func (t *Tracker) rollover() {
	if day := t.today(); day != t.day {
		t.log.Debug().Str("from", t.day).Str("to", day).Msg("new day, resetting attendance")
		t.day = day
		t.state = NotCheckedIn
		t.record = nil
	}
}

// begin claims the single action slot and returns the state the action starts from.
func (t *Tracker) begin() (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.busy {
		return t.state, ErrBusy
	}
	t.busy = true
	t.rollover()
	return t.state, nil
}

func (t *Tracker) end() {
	t.mu.Lock()
	t.busy = false
	t.mu.Unlock()
}

// merge applies a server answer. A response that arrives after the day changed is dropped.
func (t *Tracker) merge(day string, next State, record *v1.AttendanceRecord) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollover()
	if day != t.day {
		return t.state
	}
	if next > t.state {
		t.state = next
	}
	if record != nil {
		t.record = record
	}
	return t.state
}

// Refresh asks the backend for today's attendance. Failures are logged and read as NotCheckedIn,
// which can never move the state backwards.
func (t *Tracker) Refresh(ctx context.Context) (State, error) {
	if _, err := t.begin(); err != nil {
		return t.State(), err
	}
	defer t.end()
	day := t.currentDay()

	today := utils.WithFailOpenDefault(func() (*v1.TodayAttendance, error) {
		return t.api.Today(ctx)
	}, &v1.TodayAttendance{}, func(err error) {
		t.log.Warn().Err(err).Msg("fetch today's attendance")
	})
	if err := ctx.Err(); err != nil {
		return t.State(), err
	}
	if today == nil {
		today = &v1.TodayAttendance{}
	}

	in, out := today.HasCheckedIn, today.HasCheckedOut
	if today.Attendance != nil {
		recIn, recOut := today.Attendance.Flags(false, false)
		in, out = in || recIn, out || recOut
	}
	state := t.merge(day, Derive(in, out), today.Attendance)
	t.log.Debug().Str("state", state.String()).Msg("attendance refreshed")
	return state, nil
}

// CheckIn is only allowed from NotCheckedIn. Flags missing from the response count as
// "checked in, not checked out".
func (t *Tracker) CheckIn(ctx context.Context, input v1.CheckInInput) (*v1.AttendanceActionResponse, error) {
	from, err := t.begin()
	if err != nil {
		return nil, err
	}
	defer t.end()
	if from != NotCheckedIn {
		return nil, fmt.Errorf("%w: cannot check in while %s", ErrInvalidTransition, from)
	}
	day := t.currentDay()

	resp, err := t.api.CheckIn(ctx, input)
	if err != nil {
		t.log.Info().Err(err).Msg("check-in failed")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in, out := resp.Attendance.Flags(true, false)
	state := t.merge(day, Derive(in, out), resp.Attendance)
	t.log.Info().Str("state", state.String()).Msg("checked in")
	t.notify("checked in", resp.Attendance)
	return resp, nil
}

// WorkCheckIn records the start of work on site. It needs an open check-in and does not change
// the state.
func (t *Tracker) WorkCheckIn(ctx context.Context, note string) (*v1.AttendanceActionResponse, error) {
	from, err := t.begin()
	if err != nil {
		return nil, err
	}
	defer t.end()
	if from != CheckedIn {
		return nil, fmt.Errorf("%w: cannot work check-in while %s", ErrInvalidTransition, from)
	}

	resp, err := t.api.WorkCheckIn(ctx, note)
	if err != nil {
		t.log.Info().Err(err).Msg("work check-in failed")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return resp, nil
}

// CheckOut is only allowed from CheckedIn. Flags missing from the response count as
// "checked in and out".
func (t *Tracker) CheckOut(ctx context.Context, input v1.CheckOutInput) (*v1.AttendanceActionResponse, error) {
	from, err := t.begin()
	if err != nil {
		return nil, err
	}
	defer t.end()
	if from != CheckedIn {
		return nil, fmt.Errorf("%w: cannot check out while %s", ErrInvalidTransition, from)
	}
	day := t.currentDay()

	resp, err := t.api.CheckOut(ctx, input)
	if err != nil {
		t.log.Info().Err(err).Msg("check-out failed")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in, out := resp.Attendance.Flags(true, true)
	state := t.merge(day, Derive(in, out), resp.Attendance)
	t.log.Info().Str("state", state.String()).Msg("checked out")
	t.notify("checked out", resp.Attendance)
	return resp, nil
}

func (t *Tracker) notify(action string, record *v1.AttendanceRecord) {
	if t.notifier == nil {
		return
	}
	who := "A technician"
	if record != nil && record.UserDetail != nil {
		who = utils.FirstNonEmpty(record.UserDetail.FullName, record.UserDetail.Email, who)
	}
	message := fmt.Sprintf("%s %s at %s", who, action, t.now().In(utils.IndiaTZ).Format("15:04 on 02 Jan 2006"))
	if record != nil {
		if loc := utils.Format(record.CheckInLocation); action == "checked in" && loc != "" {
			message += " (" + loc + ")"
		}
	}
	if err := t.notifier.Info(message); err != nil {
		t.log.Warn().Err(err).Msg("attendance notification")
	}
}

func (t *Tracker) currentDay() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.day
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollover()
	return t.state
}

// Record is the latest attendance record seen today, or nil.
func (t *Tracker) Record() *v1.AttendanceRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollover()
	return t.record
}

func (t *Tracker) CanCheckIn() bool {
	return t.State() == NotCheckedIn
}

func (t *Tracker) CanCheckOut() bool {
	return t.State() == CheckedIn
}
