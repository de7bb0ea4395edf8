package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/utils"
)

type fakeAPI struct {
	mu       sync.Mutex
	calls    []string
	today    func(ctx context.Context) (*v1.TodayAttendance, error)
	checkIn  func(ctx context.Context, in v1.CheckInInput) (*v1.AttendanceActionResponse, error)
	work     func(ctx context.Context, note string) (*v1.AttendanceActionResponse, error)
	checkOut func(ctx context.Context, in v1.CheckOutInput) (*v1.AttendanceActionResponse, error)
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Today(ctx context.Context) (*v1.TodayAttendance, error) {
	f.record("today")
	if f.today == nil {
		return &v1.TodayAttendance{}, nil
	}
	return f.today(ctx)
}

func (f *fakeAPI) CheckIn(ctx context.Context, in v1.CheckInInput) (*v1.AttendanceActionResponse, error) {
	f.record("checkin")
	if f.checkIn == nil {
		return &v1.AttendanceActionResponse{Message: "ok"}, nil
	}
	return f.checkIn(ctx, in)
}

func (f *fakeAPI) WorkCheckIn(ctx context.Context, note string) (*v1.AttendanceActionResponse, error) {
	f.record("work")
	if f.work == nil {
		return &v1.AttendanceActionResponse{Message: "ok"}, nil
	}
	return f.work(ctx, note)
}

func (f *fakeAPI) CheckOut(ctx context.Context, in v1.CheckOutInput) (*v1.AttendanceActionResponse, error) {
	f.record("checkout")
	if f.checkOut == nil {
		return &v1.AttendanceActionResponse{Message: "ok"}, nil
	}
	return f.checkOut(ctx, in)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Info(message string) error {
	n.messages = append(n.messages, message)
	return nil
}

func newTracker(api *fakeAPI, opts ...Option) (*Tracker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 3, 10, 9, 0, 0, 0, utils.IndiaTZ)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewTracker(api, zerolog.Nop(), opts...), clock
}

func TestDerive(t *testing.T) {
	tests := []struct {
		in, out bool
		want    State
	}{
		{false, false, NotCheckedIn},
		{true, false, CheckedIn},
		{true, true, CheckedInAndOut},
		{false, true, CheckedInAndOut},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Derive(tt.in, tt.out), "in=%v out=%v", tt.in, tt.out)
	}
}

func TestRefreshFailsOpen(t *testing.T) {
	api := &fakeAPI{today: func(ctx context.Context) (*v1.TodayAttendance, error) {
		return nil, errors.New("boom")
	}}
	tracker, _ := newTracker(api)

	state, err := tracker.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NotCheckedIn, state)
	assert.True(t, tracker.CanCheckIn())
}

func TestRefreshAdoptsServerFlags(t *testing.T) {
	api := &fakeAPI{today: func(ctx context.Context) (*v1.TodayAttendance, error) {
		return &v1.TodayAttendance{HasCheckedIn: true}, nil
	}}
	tracker, _ := newTracker(api)

	state, err := tracker.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CheckedIn, state)
	assert.True(t, tracker.CanCheckOut())
}

func TestCheckInThenCheckOut(t *testing.T) {
	api := &fakeAPI{}
	notifier := &recordingNotifier{}
	tracker, _ := newTracker(api, WithNotifier(notifier))
	ctx := context.Background()

	_, err := tracker.CheckIn(ctx, v1.CheckInInput{Note: "morning"})
	require.NoError(t, err)
	assert.Equal(t, CheckedIn, tracker.State())

	_, err = tracker.WorkCheckIn(ctx, "on site")
	require.NoError(t, err)
	assert.Equal(t, CheckedIn, tracker.State())

	_, err = tracker.CheckOut(ctx, v1.CheckOutInput{Note: "done"})
	require.NoError(t, err)
	assert.Equal(t, CheckedInAndOut, tracker.State())

	assert.Equal(t, []string{"checkin", "work", "checkout"}, api.Calls())
	assert.Len(t, notifier.messages, 2)
}

func TestCheckInAdoptsEchoedFlags(t *testing.T) {
	api := &fakeAPI{checkIn: func(ctx context.Context, in v1.CheckInInput) (*v1.AttendanceActionResponse, error) {
		return &v1.AttendanceActionResponse{Attendance: &v1.AttendanceRecord{
			ID:           4,
			IsCheckedIn:  utils.Ptr(true),
			IsCheckedOut: utils.Ptr(true),
		}}, nil
	}}
	tracker, _ := newTracker(api)

	_, err := tracker.CheckIn(context.Background(), v1.CheckInInput{})
	require.NoError(t, err)
	assert.Equal(t, CheckedInAndOut, tracker.State())
	require.NotNil(t, tracker.Record())
	assert.Equal(t, int64(4), tracker.Record().ID)
}

func TestInvalidTransitionsMakeNoCall(t *testing.T) {
	api := &fakeAPI{}
	tracker, _ := newTracker(api)
	ctx := context.Background()

	_, err := tracker.CheckOut(ctx, v1.CheckOutInput{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = tracker.WorkCheckIn(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, api.Calls())

	_, err = tracker.CheckIn(ctx, v1.CheckInInput{})
	require.NoError(t, err)
	_, err = tracker.CheckIn(ctx, v1.CheckInInput{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = tracker.CheckOut(ctx, v1.CheckOutInput{})
	require.NoError(t, err)
	_, err = tracker.CheckOut(ctx, v1.CheckOutInput{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = tracker.CheckIn(ctx, v1.CheckInInput{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.Equal(t, []string{"checkin", "checkout"}, api.Calls())
}

func TestFailedActionKeepsState(t *testing.T) {
	api := &fakeAPI{checkIn: func(ctx context.Context, in v1.CheckInInput) (*v1.AttendanceActionResponse, error) {
		return nil, &v1.APIError{StatusCode: 400, Message: "Already checked in today"}
	}}
	tracker, _ := newTracker(api)

	_, err := tracker.CheckIn(context.Background(), v1.CheckInInput{})
	require.Error(t, err)
	assert.Equal(t, "Already checked in today", err.Error())
	assert.Equal(t, NotCheckedIn, tracker.State())
}

func TestStateNeverDecreasesWithinADay(t *testing.T) {
	hasIn := true
	api := &fakeAPI{today: func(ctx context.Context) (*v1.TodayAttendance, error) {
		return &v1.TodayAttendance{HasCheckedIn: hasIn}, nil
	}}
	tracker, _ := newTracker(api)
	ctx := context.Background()

	_, err := tracker.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, CheckedIn, tracker.State())

	hasIn = false
	state, err := tracker.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, CheckedIn, state)

	api.today = func(ctx context.Context) (*v1.TodayAttendance, error) { return nil, errors.New("offline") }
	state, err = tracker.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, CheckedIn, state)
}

func TestNewDayStartsOver(t *testing.T) {
	api := &fakeAPI{}
	tracker, clock := newTracker(api)
	ctx := context.Background()

	_, err := tracker.CheckIn(ctx, v1.CheckInInput{})
	require.NoError(t, err)
	_, err = tracker.CheckOut(ctx, v1.CheckOutInput{})
	require.NoError(t, err)
	assert.Equal(t, CheckedInAndOut, tracker.State())

	clock.Advance(24 * time.Hour)
	assert.Equal(t, NotCheckedIn, tracker.State())
	assert.Nil(t, tracker.Record())
	assert.True(t, tracker.CanCheckIn())
}

func TestSecondActionWhileBusy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{checkIn: func(ctx context.Context, in v1.CheckInInput) (*v1.AttendanceActionResponse, error) {
		close(started)
		<-release
		return &v1.AttendanceActionResponse{}, nil
	}}
	tracker, _ := newTracker(api)

	done := make(chan error, 1)
	go func() {
		_, err := tracker.CheckIn(context.Background(), v1.CheckInInput{})
		done <- err
	}()
	<-started

	_, err := tracker.CheckIn(context.Background(), v1.CheckInInput{})
	assert.ErrorIs(t, err, ErrBusy)
	_, err = tracker.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, CheckedIn, tracker.State())
	assert.Equal(t, []string{"checkin"}, api.Calls())
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	api := &fakeAPI{checkIn: func(ctx context.Context, in v1.CheckInInput) (*v1.AttendanceActionResponse, error) {
		cancel()
		return &v1.AttendanceActionResponse{}, nil
	}}
	tracker, _ := newTracker(api)

	_, err := tracker.CheckIn(ctx, v1.CheckInInput{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, NotCheckedIn, tracker.State())
}
