package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	v1 "technuob.com/atomlift/atomlift/v1"
	"technuob.com/atomlift/infrastructure/communication"
	"technuob.com/atomlift/infrastructure/devops"
	"technuob.com/atomlift/infrastructure/filesystem"
	"technuob.com/atomlift/infrastructure/logging"
	"technuob.com/atomlift/lambdas/attendancedigest/helper"
)

// HandleRequest runs on a schedule. The config normally comes from an SSM parameter named by
// ATOMLIFT_CONFIG, e.g. "ssm:/atomlift/digest".
func HandleRequest(ctx context.Context, event helper.Event) (*helper.Result, error) {
	cfg, err := devops.Load(ctx, os.Getenv("ATOMLIFT_CONFIG"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, Service: "atomlift-digest"})
	if cfg.Digest.Token == "" {
		return nil, errors.New("digest.token is not configured")
	}

	client := v1.NewAtomliftClient(cfg.BaseURL, v1.StaticToken(cfg.Digest.Token), v1.WithTimeout(cfg.Timeout), v1.WithLogger(log))

	digest := &helper.Digest{
		Attendance: client.Attendance,
		Sender:     cfg.Report.Sender,
		Log:        log,
	}
	if slack := communication.ConnectSlack(cfg.Slack); slack != nil {
		digest.Notifier = slack
	}
	if cfg.Attachments.Bucket != "" {
		uploader, err := filesystem.ConnectS3(ctx, cfg.Attachments.Bucket, "reports/")
		if err != nil {
			return nil, err
		}
		digest.Archive = uploader
	}
	if len(event.Recipients) == 0 {
		event.Recipients = cfg.Digest.Recipients
	}
	if len(event.Recipients) > 0 {
		mailer, err := communication.ConnectSES(ctx)
		if err != nil {
			return nil, err
		}
		digest.Mailer = mailer
	}

	result, err := digest.Run(ctx, event)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("from", result.From).
		Str("to", result.To).
		Int("records", result.Records).
		Str("report", result.Report).
		Msg("attendance digest published")
	return result, nil
}

func main() {
	lambda.Start(HandleRequest)
}
