// Package notify delivers alert notifications through shoutrrr service URLs
// (smtp, telegram, gotify, ...).
package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"garden-hub/backend/internal/alerting"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
)

// destinationPlaceholder in the configured service URL is replaced with the
// user's notification destination on each send.
const destinationPlaceholder = "{destination}"

const defaultTimeout = 10 * time.Second

// Sender implements alerting.Notifier on top of a shoutrrr service URL.
type Sender struct {
	l           *slog.Logger
	urlTemplate string
	timeout     time.Duration
}

// New validates the service URL template and returns a Sender. The template
// may contain {destination}, substituted with the per-user destination at
// send time.
func New(l *slog.Logger, urlTemplate string) (*Sender, error) {
	if urlTemplate == "" {
		return nil, fmt.Errorf("notification service URL is required")
	}

	// Resolve with a dummy destination to validate the template up front.
	probe := resolveURL(urlTemplate, "probe@example.com")
	if _, err := shoutrrr.CreateSender(probe); err != nil {
		return nil, fmt.Errorf("invalid notification service URL: %w", err)
	}

	return &Sender{
		l:           l.With(slog.String("component", "notify")),
		urlTemplate: urlTemplate,
		timeout:     defaultTimeout,
	}, nil
}

func resolveURL(template, destination string) string {
	return strings.ReplaceAll(template, destinationPlaceholder, url.QueryEscape(destination))
}

func (s *Sender) Send(ctx context.Context, destination string, alert alerting.Alert) error {
	sender, err := shoutrrr.CreateSender(resolveURL(s.urlTemplate, destination))
	if err != nil {
		return fmt.Errorf("failed to create notification sender: %w", err)
	}

	sender.Timeout = s.timeout
	sender.SetLogger(log.New(io.Discard, "", 0))

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < sender.Timeout {
			sender.Timeout = remaining
		}
	}

	params := stypes.Params{}
	params.SetTitle(Title(alert.Kind))

	errs := sender.Send(Message(alert), &params)
	for _, e := range errs {
		if e != nil {
			return fmt.Errorf("notification delivery failed: %w", e)
		}
	}

	s.l.Debug("notification delivered", slog.String("kind", string(alert.Kind)))

	return nil
}

// Title returns the notification subject line for an alert kind.
func Title(kind alerting.Kind) string {
	switch kind {
	case alerting.KindGas:
		return "Gas level alert"
	case alerting.KindTemperature:
		return "High temperature alert"
	case alerting.KindFire:
		return "FIRE RISK alert"
	case alerting.KindLowHumidity:
		return "Soil too dry"
	case alerting.KindHighHumidity:
		return "Soil too wet"
	default:
		return "Sensor alert"
	}
}

// Message renders the notification body. Fire alerts carry both underlying
// readings so the recipient sees the full picture from a single message.
func Message(alert alerting.Alert) string {
	if alert.Kind == alerting.KindFire {
		return fmt.Sprintf(
			"Possible fire: gas level %.1f ppm and temperature %.1f °C are both over their thresholds.",
			alert.Context["gasLevel"], alert.Context["temperature"],
		)
	}

	return fmt.Sprintf("%s: reading %.1f crossed threshold %.1f.", Title(alert.Kind), alert.Value, alert.Threshold)
}
