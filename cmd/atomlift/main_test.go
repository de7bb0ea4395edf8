package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"technuob.com/atomlift/web/handlers"
)

type cli struct {
	requests atomic.Int64
}

// newCLI points the command at a fresh stub backend and an empty state dir.
func newCLI(t *testing.T) *cli {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c := &cli{}
	engine := handlers.NewStubServer(handlers.NewBackend(), zerolog.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.requests.Add(1)
		engine.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	for k, v := range map[string]string{
		"ATOMLIFT_CONFIG":            "",
		"ATOMLIFT_BASE_URL":          srv.URL,
		"ATOMLIFT_STATE_DIR":         t.TempDir(),
		"ATOMLIFT_LOG_LEVEL":         "disabled",
		"ATOMLIFT_PASSWORD":          "",
		"ATOMLIFT_ATTACHMENT_BUCKET": "",
		"ATOMLIFT_REPORT_SENDER":     "",
		"SLACK_BOT_TOKEN":            "",
		"SLACK_INFO_CHANNEL":         "",
	} {
		t.Setenv(k, v)
	}
	return c
}

func (c *cli) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func (c *cli) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	code, out, errOut := c.run(t, args...)
	require.Equal(t, 0, code, "atomlift %v: %s", args, errOut)
	return out
}

func TestUsage(t *testing.T) {
	c := newCLI(t)

	code, _, errOut := c.run(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "commands: amc, attendance")

	code, _, errOut = c.run(t, "bogus")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "bogus"`)

	code, _, errOut = c.run(t, "leave")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage: atomlift leave counts|create|delete|list|types|update")
}

func TestSessionPersistsAcrossInvocations(t *testing.T) {
	c := newCLI(t)

	code, _, errOut := c.run(t, "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not logged in")

	code, _, errOut = c.run(t, "login", "-password", "nope", "tech@atomlift.in")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Invalid credentials")

	out := c.mustRun(t, "login", "-password", "lift123", "tech@atomlift.in")
	assert.Contains(t, out, "Logged in as Ravi Kumar")

	out = c.mustRun(t, "whoami")
	assert.Contains(t, out, "tech@atomlift.in")

	c.mustRun(t, "logout")
	code, _, _ = c.run(t, "leave", "list")
	assert.Equal(t, 1, code)
}

func TestOTPLogin(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun(t, "otp", "request", "98765 43210")
	assert.Contains(t, out, "OTP sent successfully")

	out = c.mustRun(t, "otp", "verify", "-code", handlers.StubOTP, "9876543210")
	assert.Contains(t, out, "Logged in as Ravi Kumar")
}

func TestValidationErrorsSendNothing(t *testing.T) {
	c := newCLI(t)

	code, _, errOut := c.run(t, "login", "tech@atomlift.in")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Please enter your password")

	code, _, errOut = c.run(t, "otp", "request", "12345")
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, errOut)

	assert.Zero(t, c.requests.Load())

	c.mustRun(t, "login", "-password", "lift123", "tech@atomlift.in")
	before := c.requests.Load()

	code, _, errOut = c.run(t, "leave", "create", "-type", "casual", "-from", "2024-03-12", "-to", "2024-03-10", "-reason", "trip")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "To Date cannot be before From Date")

	code, _, errOut = c.run(t, "travel", "create", "-by", "bus", "-date", "2024-03-10", "-from", "Pune", "-to", "Mumbai", "-amount", "-5")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Please enter a valid amount")

	code, _, errOut = c.run(t, "materials", "create", "-description", "spare")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Please fill in the following required fields: Request Name, Item")

	assert.Equal(t, before, c.requests.Load())
}

func TestLeaveCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun(t, "login", "-password", "lift123", "tech@atomlift.in")

	out := c.mustRun(t, "leave", "create", "-type", "sick", "-from", "2024-03-12", "-half-day", "-reason", "fever")
	assert.Contains(t, out, "sick 2024-03-12..2024-03-12 (pending)")

	out = c.mustRun(t, "leave", "list")
	assert.Contains(t, out, "fever")
	assert.Contains(t, out, "approved")

	out = c.mustRun(t, "leave", "counts")
	assert.Contains(t, out, "Sick Leave")

	out = c.mustRun(t, "leave", "types")
	assert.Contains(t, out, "Earned Leave")

	code, _, errOut := c.run(t, "leave", "delete", "61")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Only pending leave requests can be edited or deleted")

	code, _, errOut = c.run(t, "leave", "update", "-reason", "again", "61")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Only pending leave requests can be edited or deleted")
}

func TestAttendanceCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun(t, "login", "-password", "lift123", "tech@atomlift.in")

	out := c.mustRun(t, "attendance", "today")
	assert.Contains(t, out, "not_checked_in")

	selfie := filepath.Join(t.TempDir(), "me.jpg")
	require.NoError(t, os.WriteFile(selfie, []byte("jpeg"), 0o600))
	out = c.mustRun(t, "attendance", "checkin", "-location", "Sunrise Towers", "-selfie", selfie)
	assert.Contains(t, out, "Checked in successfully")

	code, _, errOut := c.run(t, "attendance", "checkin")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid attendance transition")

	c.mustRun(t, "attendance", "workcheckin", "-note", "lift 3")
	out = c.mustRun(t, "attendance", "checkout", "-location", "Office")
	assert.Contains(t, out, "Checked out successfully")

	out = c.mustRun(t, "attendance", "list")
	assert.Contains(t, out, "Sunrise Towers")
	assert.Contains(t, out, "1 record(s)")

	report := filepath.Join(t.TempDir(), "attendance.xlsx")
	out = c.mustRun(t, "attendance", "export", "-o", report)
	assert.Contains(t, out, "Wrote 1 record(s)")
	info, err := os.Stat(report)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	code, _, errOut = c.run(t, "attendance", "export", "-o", report, "-mail", "boss@atomlift.in")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "report.sender must be configured")
}

func TestAttendanceNeedsLogin(t *testing.T) {
	c := newCLI(t)

	for _, args := range [][]string{
		{"attendance", "today"},
		{"attendance", "checkin", "-location", "Office"},
		{"attendance", "workcheckin"},
		{"attendance", "checkout"},
		{"attendance", "list"},
	} {
		code, _, errOut := c.run(t, args...)
		assert.Equal(t, 1, code, "atomlift %v", args)
		assert.Contains(t, errOut, "not logged in", "atomlift %v", args)
		assert.NotContains(t, errOut, "invalid attendance transition")
	}
	assert.Zero(t, c.requests.Load())

	c.mustRun(t, "login", "-password", "lift123", "tech@atomlift.in")
	c.mustRun(t, "logout")
	code, _, errOut := c.run(t, "attendance", "checkout")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not logged in")
}

func TestCatalogCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun(t, "login", "-password", "lift123", "tech@atomlift.in")

	out := c.mustRun(t, "complaints", "list")
	assert.Contains(t, out, "CMP-1001")

	out = c.mustRun(t, "complaints", "update", "-status", "resolved", "CMP-1001")
	assert.Contains(t, out, "Complaint updated successfully")

	out = c.mustRun(t, "amc", "list")
	assert.Contains(t, out, "AMC-031")

	out = c.mustRun(t, "amc", "types")
	assert.Contains(t, out, "Comprehensive")

	out = c.mustRun(t, "customers", "list")
	assert.Contains(t, out, "Lakeview Residency")

	out = c.mustRun(t, "materials", "items")
	assert.Contains(t, out, "Door sensor")

	out = c.mustRun(t, "materials", "create", "-name", "Sensor", "-item", "51")
	assert.Contains(t, out, "Material request created successfully")

	out = c.mustRun(t, "travel", "create", "-by", "bus", "-date", "2024-03-10", "-from", "Pune", "-to", "Mumbai", "-amount", "450")
	assert.Contains(t, out, "Travel request created successfully")

	out = c.mustRun(t, "travel", "list")
	assert.Contains(t, out, "Mumbai")

	code, _, errOut := c.run(t, "travel", "create", "-by", "bus", "-date", "2024-03-10", "-from", "Pune", "-to", "Mumbai", "-amount", "450", "-attachment", "receipt.pdf")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "attachments.bucket must be configured")
}
