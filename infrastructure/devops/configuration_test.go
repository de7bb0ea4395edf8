package devops

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"ATOMLIFT_BASE_URL", "ATOMLIFT_TIMEOUT", "ATOMLIFT_STATE_DIR", "ATOMLIFT_LOG_LEVEL", "ATOMLIFT_LOG_PRETTY",
	"SLACK_BOT_TOKEN", "SLACK_INFO_CHANNEL", "SLACK_ERROR_CHANNEL",
	"ATOMLIFT_ATTACHMENT_BUCKET", "ATOMLIFT_REPORT_SENDER", "ATOMLIFT_DIGEST_TOKEN",
}

func clearEnv(t *testing.T) {
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atomlift.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.StateDir)
	assert.False(t, cfg.SlackEnabled())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
base_url: http://localhost:8080
timeout: 45s
state_dir: /tmp/atomlift
slack:
  token: xoxb-file
  info_channel: C1
attachments:
  bucket: lift-files
digest:
  token: svc-token
  recipients: [ops@atomlift.in]
`)
	t.Setenv("ATOMLIFT_TIMEOUT", "10")
	t.Setenv("SLACK_INFO_CHANNEL", "C2")

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "/tmp/atomlift", cfg.StateDir)
	assert.Equal(t, "xoxb-file", cfg.Slack.Token)
	assert.Equal(t, "C2", cfg.Slack.InfoChannel)
	assert.Equal(t, "lift-files", cfg.Attachments.Bucket)
	assert.Equal(t, "attachments/", cfg.Attachments.Prefix)
	assert.Equal(t, "svc-token", cfg.Digest.Token)
	assert.Equal(t, []string{"ops@atomlift.in"}, cfg.Digest.Recipients)
	assert.True(t, cfg.SlackEnabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "relative url", yaml: "base_url: /api"},
		{name: "ftp url", yaml: "base_url: ftp://files.example.com"},
		{name: "zero timeout", yaml: "timeout: 0s"},
		{name: "bad env timeout", env: map[string]string{"ATOMLIFT_TIMEOUT": "soon"}},
		{name: "bad pretty flag", env: map[string]string{"ATOMLIFT_LOG_PRETTY": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeConfig(t, tt.yaml)
			}
			_, err := Load(context.Background(), path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseTimeout(t *testing.T) {
	d, err := parseTimeout("15")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)

	d, err = parseTimeout("2m")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)
}
