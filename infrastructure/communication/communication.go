package communication

import (
	"errors"
	"fmt"

	"github.com/slack-go/slack"

	"technuob.com/atomlift/infrastructure/devops"
)

var ErrNoChannel = errors.New("slack channel not configured")

// Slack posts attendance announcements and failures to two channels.
type Slack struct {
	client  *slack.Client
	options SlackOption
}

type SlackOption struct {
	InfoChannelID  string
	ErrorChannelID string
	// APIURL overrides the Slack endpoint, used against a local server in tests.
	APIURL string
}

// ConnectSlack returns nil when the config has no bot token or info channel.
func ConnectSlack(cfg devops.SlackConfig) *Slack {
	if cfg.Token == "" || cfg.InfoChannel == "" {
		return nil
	}
	return NewSlack(cfg.Token, SlackOption{InfoChannelID: cfg.InfoChannel, ErrorChannelID: cfg.ErrorChannel})
}

func NewSlack(token string, options SlackOption) *Slack {
	var opts []slack.Option
	if options.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(options.APIURL))
	}
	return &Slack{client: slack.New(token, opts...), options: options}
}

func (this *Slack) postMessage(channelID, message string) error {
	if channelID == "" {
		return ErrNoChannel
	}
	_, _, err := this.client.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("post message to slack: %w", err)
	}
	return nil
}

func (this *Slack) Info(message string) error {
	return this.postMessage(this.options.InfoChannelID, message)
}

// Error falls back to the info channel when no error channel is set.
func (this *Slack) Error(message string) error {
	channel := this.options.ErrorChannelID
	if channel == "" {
		channel = this.options.InfoChannelID
	}
	return this.postMessage(channel, message)
}
