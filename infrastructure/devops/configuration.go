package devops

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"

	v1 "technuob.com/atomlift/atomlift/v1"
)

// SSMPrefix marks a config path that names an SSM parameter instead of a file.
const SSMPrefix = "ssm:"

type SlackConfig struct {
	Token        string `yaml:"token"`
	InfoChannel  string `yaml:"info_channel"`
	ErrorChannel string `yaml:"error_channel"`
}

type AttachmentConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

type ReportConfig struct {
	Sender string `yaml:"sender"`
}

// DigestConfig is read by the attendance digest Lambda. Token is a service account's API token.
type DigestConfig struct {
	Token      string   `yaml:"token"`
	Recipients []string `yaml:"recipients"`
}

type Config struct {
	BaseURL     string           `yaml:"base_url"`
	Timeout     time.Duration    `yaml:"timeout"`
	StateDir    string           `yaml:"state_dir"`
	LogLevel    string           `yaml:"log_level"`
	LogPretty   bool             `yaml:"log_pretty"`
	Slack       SlackConfig      `yaml:"slack"`
	Attachments AttachmentConfig `yaml:"attachments"`
	Report      ReportConfig     `yaml:"report"`
	Digest      DigestConfig     `yaml:"digest"`
}

func Default() Config {
	stateDir := ".atomlift"
	if home, err := os.UserHomeDir(); err == nil {
		stateDir = filepath.Join(home, ".atomlift")
	}
	return Config{
		BaseURL:  v1.DefaultBaseURL,
		Timeout:  v1.DefaultTimeout,
		StateDir: stateDir,
		LogLevel: "info",
		Attachments: AttachmentConfig{
			Prefix: "attachments/",
		},
	}
}

// Load builds the configuration from defaults, then the YAML document at path (a file, or
// "ssm:<name>" for an SSM parameter), then .env, then the environment. An empty path skips the
// document; a missing .env is fine.
func Load(ctx context.Context, path string) (Config, error) {
	cfg := Default()

	doc, err := readDocument(ctx, path)
	if err != nil {
		return cfg, err
	}
	if len(doc) > 0 {
		if err := yaml.Unmarshal(doc, &cfg); err != nil {
			return cfg, fmt.Errorf("unmarshal yaml: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func readDocument(ctx context.Context, path string) ([]byte, error) {
	switch {
	case path == "":
		return nil, nil
	case strings.HasPrefix(path, SSMPrefix):
		return loadParameter(ctx, strings.TrimPrefix(path, SSMPrefix))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return b, nil
}

func loadParameter(ctx context.Context, name string) ([]byte, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(awsCfg)
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, fmt.Errorf("parameter %s has no value", name)
	}
	return []byte(*out.Parameter.Value), nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("ATOMLIFT_BASE_URL", &cfg.BaseURL)
	str("ATOMLIFT_STATE_DIR", &cfg.StateDir)
	str("ATOMLIFT_LOG_LEVEL", &cfg.LogLevel)
	str("SLACK_BOT_TOKEN", &cfg.Slack.Token)
	str("SLACK_INFO_CHANNEL", &cfg.Slack.InfoChannel)
	str("SLACK_ERROR_CHANNEL", &cfg.Slack.ErrorChannel)
	str("ATOMLIFT_ATTACHMENT_BUCKET", &cfg.Attachments.Bucket)
	str("ATOMLIFT_REPORT_SENDER", &cfg.Report.Sender)
	str("ATOMLIFT_DIGEST_TOKEN", &cfg.Digest.Token)

	if v := strings.TrimSpace(os.Getenv("ATOMLIFT_TIMEOUT")); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("ATOMLIFT_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := strings.TrimSpace(os.Getenv("ATOMLIFT_LOG_PRETTY")); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ATOMLIFT_LOG_PRETTY: %w", err)
		}
		cfg.LogPretty = pretty
	}
	return nil
}

// parseTimeout accepts a Go duration ("45s") or a bare number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("base_url must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if strings.TrimSpace(c.StateDir) == "" {
		return errors.New("state_dir is required")
	}
	return nil
}

func (c Config) SlackEnabled() bool {
	return c.Slack.Token != "" && c.Slack.InfoChannel != ""
}
