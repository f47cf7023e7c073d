// Package notify delivers reception alerts to chat webhooks.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Message is one reception alert.
type Message struct {
	Title string
	Body  string
}

// Channel is a single webhook destination.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// ChannelFailure is the failure of one channel inside a fan-out.
type ChannelFailure struct {
	Channel    string
	StatusCode int
	Err        error
}

// DeliveryError lists every channel that did not answer 200. Its message is
// spoken to visitors, so transport causes are reduced to "unreachable"; the
// underlying error, which carries the webhook URL, is only logged.
type DeliveryError struct {
	Failures []ChannelFailure
}

func (e *DeliveryError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		if f.StatusCode != 0 {
			parts = append(parts, fmt.Sprintf("Failed to notify %s: %d", f.Channel, f.StatusCode))
		} else {
			parts = append(parts, fmt.Sprintf("Failed to notify %s: unreachable", f.Channel))
		}
	}
	return strings.Join(parts, "; ")
}

// Channels returns the failing channel names in send order.
func (e *DeliveryError) Channels() []string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Channel)
	}
	return names
}

// Fanout sends each alert to every channel in order. It does not stop at
// the first failure and does not retry.
type Fanout struct {
	channels []Channel
	logger   *zap.Logger
}

func NewFanout(logger *zap.Logger, channels ...Channel) *Fanout {
	return &Fanout{channels: channels, logger: logger}
}

// Channels returns the configured channel names.
func (f *Fanout) Channels() []string {
	names := make([]string, 0, len(f.channels))
	for _, c := range f.channels {
		names = append(names, c.Name())
	}
	return names
}

func (f *Fanout) Notify(ctx context.Context, title, body string) error {
	msg := Message{Title: title, Body: body}
	f.logger.Info("notifying reception", zap.Strings("channels", f.Channels()), zap.String("title", title))

	var failures []ChannelFailure
	for _, c := range f.channels {
		err := c.Send(ctx, msg)
		if err == nil {
			continue
		}

		failure := ChannelFailure{Channel: c.Name(), Err: err}
		var se *StatusError
		if errors.As(err, &se) {
			failure.StatusCode = se.StatusCode
		}
		f.logger.Error("notification failed",
			zap.String("channel", c.Name()),
			zap.Int("status", failure.StatusCode),
			zap.Error(err),
		)
		failures = append(failures, failure)
	}

	if len(failures) > 0 {
		return &DeliveryError{Failures: failures}
	}
	return nil
}

// NoopNotifier accepts every alert. Used when no webhook is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(_ context.Context, _, _ string) error {
	return nil
}
