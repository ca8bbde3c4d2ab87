// Package notify delivers email notifications for report and quiz events.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/okian/linguist/pkg/logger"
	"github.com/okian/linguist/pkg/metrics"
)

// ErrNoRecipients is returned for messages without an address.
var ErrNoRecipients = errors.New("notification has no recipients")

const charset = "UTF-8"

// Message is one outgoing notification.
type Message struct {
	Topic   string
	To      []string
	Subject string
	Body    string
}

// Notifier sends messages. Failures are reported, never retried here.
type Notifier interface {
	Notify(ctx context.Context, m Message) error
}

// SESAPI is the subset of the SES client used for sending.
type SESAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier sends plain-text email through Amazon SES.
type SESNotifier struct {
	api  SESAPI
	from string
}

// NewSESNotifier loads the default AWS config for region.
func NewSESNotifier(ctx context.Context, region, from string) (*SESNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSESNotifierWithClient(ses.NewFromConfig(cfg), from), nil
}

// NewSESNotifierWithClient uses an existing client.
func NewSESNotifierWithClient(api SESAPI, from string) *SESNotifier {
	return &SESNotifier{api: api, from: from}
}

// Notify implements Notifier.
func (s *SESNotifier) Notify(ctx context.Context, m Message) error {
	to := recipients(m.To)
	if len(to) == 0 {
		metrics.RecordNotification(m.Topic, false)
		return ErrNoRecipients
	}
	_, err := s.api.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(s.from),
		Destination: &types.Destination{ToAddresses: to},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(m.Subject), Charset: aws.String(charset)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(m.Body), Charset: aws.String(charset)},
			},
		},
	})
	metrics.RecordNotification(m.Topic, err == nil)
	if err != nil {
		return fmt.Errorf("ses send %s: %w", m.Topic, err)
	}
	return nil
}

// LogNotifier writes notifications to the log. It is the default when no
// SES region is configured.
type LogNotifier struct {
	logger logger.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(l logger.Logger) *LogNotifier {
	if l == nil {
		l = logger.Get().Named("notify")
	}
	return &LogNotifier{logger: l}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, m Message) error {
	to := recipients(m.To)
	if len(to) == 0 {
		metrics.RecordNotification(m.Topic, false)
		return ErrNoRecipients
	}
	n.logger.Info(ctx, "notification",
		logger.String("topic", m.Topic),
		logger.String("to", strings.Join(to, ",")),
		logger.String("subject", m.Subject),
	)
	metrics.RecordNotification(m.Topic, true)
	return nil
}

func recipients(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
