package alert

import (
	"context"
	"fmt"
	"log/slog"

	"mercator-hq/usagewatch/pkg/credentials"
)

// Outcome is the result of a single notification attempt.
type Outcome string

const (
	// OutcomeSent means the message was accepted by the relay.
	OutcomeSent Outcome = "sent"
	// OutcomeSkipped means no delivery was attempted.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means delivery was attempted, or credentials could not
	// be read, and it did not succeed.
	OutcomeFailed Outcome = "failed"
)

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Auth holds the relay login.
type Auth struct {
	Username string
	Password string
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, auth Auth, msg Message) error
}

// Result describes what happened to one breach notification.
type Result struct {
	Breach  Breach
	Outcome Outcome
	Reason  string
	Err     error
}

// Notifier turns breaches into alert emails.
//
// Sender, password and receiver are resolved on every call. When any of
// them is unset the notification is skipped and the mailer is never
// touched. Delivery errors are logged and returned in the Result; they
// never propagate as errors.
type Notifier struct {
	creds  credentials.Source
	mailer Mailer
	dryRun bool
	logger *slog.Logger
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithDryRun makes the notifier log messages instead of sending them.
func WithDryRun(dryRun bool) NotifierOption {
	return func(n *Notifier) {
		n.dryRun = dryRun
	}
}

// WithLogger sets the notifier's logger.
func WithLogger(logger *slog.Logger) NotifierOption {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNotifier creates a notifier.
func NewNotifier(creds credentials.Source, mailer Mailer, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		creds:  creds,
		mailer: mailer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.With("component", "alert.notifier")
	return n
}

// Notify sends one alert for the breach.
func (n *Notifier) Notify(ctx context.Context, b Breach) Result {
	res := Result{Breach: b}

	sender, password, receiver, err := n.emailConfig(ctx)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		n.logger.Error("failed to read email configuration", "provider", b.Provider, "error", err)
		return res
	}
	if sender == "" || password == "" || receiver == "" {
		res.Outcome = OutcomeSkipped
		res.Reason = "email configuration missing"
		n.logger.Warn("email configuration missing, skipping notification",
			"provider", b.Provider,
			"sender_set", sender != "",
			"password_set", password != "",
			"receiver_set", receiver != "",
		)
		return res
	}

	msg := Message{
		From:    sender,
		To:      receiver,
		Subject: b.Subject(),
		Body:    b.Body(),
	}

	if n.dryRun {
		res.Outcome = OutcomeSkipped
		res.Reason = "dry run"
		n.logger.Info("dry run, not sending alert",
			"provider", b.Provider,
			"subject", msg.Subject,
			"to", msg.To,
		)
		return res
	}

	if err := n.mailer.Send(ctx, Auth{Username: sender, Password: password}, msg); err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		n.logger.Error("failed to send alert email",
			"provider", b.Provider,
			"error", err,
		)
		return res
	}

	res.Outcome = OutcomeSent
	n.logger.Info("alert email sent",
		"provider", b.Provider,
		"usage", b.Usage,
		"threshold", b.Threshold,
	)
	return res
}

// NotifyAll notifies each breach in order.
func (n *Notifier) NotifyAll(ctx context.Context, breaches []Breach) []Result {
	results := make([]Result, 0, len(breaches))
	for _, b := range breaches {
		results = append(results, n.Notify(ctx, b))
	}
	return results
}

func (n *Notifier) emailConfig(ctx context.Context) (sender, password, receiver string, err error) {
	if sender, err = credentials.LookupOptional(ctx, n.creds, credentials.EmailSender); err != nil {
		return "", "", "", fmt.Errorf("read %s: %w", credentials.EmailSender, err)
	}
	if password, err = credentials.LookupOptional(ctx, n.creds, credentials.EmailPassword); err != nil {
		return "", "", "", fmt.Errorf("read %s: %w", credentials.EmailPassword, err)
	}
	if receiver, err = credentials.LookupOptional(ctx, n.creds, credentials.EmailReceiver); err != nil {
		return "", "", "", fmt.Errorf("read %s: %w", credentials.EmailReceiver, err)
	}
	return sender, password, receiver, nil
}
