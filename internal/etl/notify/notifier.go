// internal/etl/notify/notifier.go
package notify

import (
	"context"
	"fmt"

	"dreamhomes-etl/internal/common/aws"
	"dreamhomes-etl/internal/common/config"
	"dreamhomes-etl/internal/common/logger"
	"dreamhomes-etl/internal/etl/pipeline"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Notifier pushes the end-of-run summary over the configured channels.
// Delivery is best effort and never fails the run.
type Notifier struct {
	cfg    config.NotificationConfig
	ses    *aws.SESClient
	sns    *aws.SNSClient
	logger logger.Logger
}

func New(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Notifier, error) {
	n := &Notifier{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notifier"}),
	}

	if cfg.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create SES client: %w", err)
		}
		n.ses = sesClient
	}
	if cfg.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create SNS client: %w", err)
		}
		n.sns = snsClient
	}

	return n, nil
}

// NotifyRunComplete sends the run summary to every enabled channel.
// Channel errors are logged, not returned.
func (n *Notifier) NotifyRunComplete(ctx context.Context, summary *pipeline.Summary) {
	subject := fmt.Sprintf("ETL run %s: %d loaded, %d failed", summary.RunID, summary.Loaded, summary.Failed)
	body := formatSummary(summary)

	if n.ses != nil {
		if err := n.sendEmail(ctx, subject, body); err != nil {
			n.logger.Warn("summary email failed", map[string]interface{}{"error": err.Error()})
		}
	}
	if n.sns != nil {
		if err := n.publish(ctx, subject, body); err != nil {
			n.logger.Warn("summary publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (n *Notifier) sendEmail(ctx context.Context, subject, body string) error {
	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: awssdk.String(n.cfg.Email.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.cfg.Email.ToEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: awssdk.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: awssdk.String(body)},
			},
		},
	})
	return err
}

func (n *Notifier) publish(ctx context.Context, subject, body string) error {
	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(n.cfg.SNS.TopicARN),
		Subject:  awssdk.String(subject),
		Message:  awssdk.String(body),
	})
	return err
}

func formatSummary(s *pipeline.Summary) string {
	return fmt.Sprintf(
		"Source: %s\nRun ID: %s\nStarted: %s\nFinished: %s\n\nRows total: %d\nLoaded: %d\nFailed: %d\nSkipped (resume): %d\n",
		s.SourceFile,
		s.RunID,
		s.StartedAt.Format("2006-01-02 15:04:05 MST"),
		s.FinishedAt.Format("2006-01-02 15:04:05 MST"),
		s.Total,
		s.Loaded,
		s.Failed,
		s.Skipped,
	)
}
