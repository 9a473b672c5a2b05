package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mercator-hq/usagewatch/pkg/alert"
	"mercator-hq/usagewatch/pkg/credentials"
	"mercator-hq/usagewatch/pkg/publish"
	"mercator-hq/usagewatch/pkg/telemetry/metrics"
	"mercator-hq/usagewatch/pkg/usage"
)

type mapSource map[string]string

func (s mapSource) Lookup(ctx context.Context, name string) (string, error) {
	if v, ok := s[name]; ok {
		return v, nil
	}
	return "", credentials.ErrNotFound
}

func (s mapSource) Name() string { return "map" }

type fixedFetcher map[string]int64

func (f fixedFetcher) FetchUsage(ctx context.Context, provider, apiKey string) (int64, error) {
	return f[provider], nil
}

type fakeMailer struct {
	sent []alert.Message
}

func (m *fakeMailer) Send(ctx context.Context, auth alert.Auth, msg alert.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

type fakePublisher struct {
	events []publish.Event
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, event publish.Event) (int64, error) {
	p.events = append(p.events, event)
	return 1, p.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func withEmail(src mapSource) mapSource {
	src[credentials.EmailSender] = "alerts@example.com"
	src[credentials.EmailPassword] = "app-password"
	src[credentials.EmailReceiver] = "ops@example.com"
	return src
}

func newTestJob(t *testing.T, creds mapSource, fetcher usage.Fetcher, mailer alert.Mailer) (*Job, string) {
	t.Helper()

	output := filepath.Join(t.TempDir(), "public", "usage.json")
	job := NewJob(Settings{OutputPath: output, Threshold: 800}, Dependencies{
		Providers:   []string{"openai", "anthropic"},
		Credentials: creds,
		Fetcher:     fetcher,
		Mailer:      mailer,
		Logger:      discardLogger(),
	})
	return job, output
}

func TestJob_Run_Example(t *testing.T) {
	creds := withEmail(mapSource{"OPENAI_API_KEY": "sk-test"})
	mailer := &fakeMailer{}
	job, output := newTestJob(t, creds, fixedFetcher{"openai": 900, "anthropic": 500}, mailer)

	report, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(raw) != 3 {
		t.Errorf("expected exactly openai, anthropic and last_updated, got %s", data)
	}
	if string(raw["openai"]) != "900" {
		t.Errorf("openai = %s, want 900", raw["openai"])
	}
	// No key, so the fetcher is never consulted.
	if string(raw["anthropic"]) != "0" {
		t.Errorf("anthropic = %s, want 0", raw["anthropic"])
	}
	var ts string
	if err := json.Unmarshal(raw["last_updated"], &ts); err != nil {
		t.Fatalf("last_updated is not a string: %v", err)
	}
	if _, err := time.Parse(usage.TimestampLayout, ts); err != nil {
		t.Errorf("last_updated %q does not parse: %v", ts, err)
	}
	if !strings.Contains(string(data), "\n  \"openai\": 900") {
		t.Errorf("expected two-space indentation, got:\n%s", data)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected exactly one email, got %d", len(mailer.sent))
	}
	if !strings.Contains(mailer.sent[0].Subject, "openai") {
		t.Errorf("subject should name openai, got %q", mailer.sent[0].Subject)
	}

	if report.RunID == "" {
		t.Error("report should carry a run ID")
	}
	if len(report.Breaches) != 1 || report.Notifications[0].Outcome != alert.OutcomeSent {
		t.Errorf("unexpected breaches/notifications: %+v %+v", report.Breaches, report.Notifications)
	}
}

func TestJob_Run_NoEmailConfig(t *testing.T) {
	mailer := &fakeMailer{}
	job, _ := newTestJob(t, mapSource{"OPENAI_API_KEY": "sk-test"}, fixedFetcher{"openai": 1000}, mailer)

	report, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(mailer.sent) != 0 {
		t.Errorf("mailer must not be called without email config, got %d", len(mailer.sent))
	}
	if len(report.Notifications) != 1 || report.Notifications[0].Outcome != alert.OutcomeSkipped {
		t.Errorf("expected one skipped notification, got %+v", report.Notifications)
	}
}

func TestJob_Run_AtThresholdSendsNothing(t *testing.T) {
	creds := withEmail(mapSource{"OPENAI_API_KEY": "k", "ANTHROPIC_API_KEY": "k"})
	mailer := &fakeMailer{}
	job, _ := newTestJob(t, creds, fixedFetcher{"openai": 800, "anthropic": 12}, mailer)

	if _, err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("usage equal to threshold must not alert, got %d emails", len(mailer.sent))
	}
}

func TestJob_Run_Overwrites(t *testing.T) {
	creds := mapSource{"OPENAI_API_KEY": "k"}
	fetcher := fixedFetcher{"openai": 100}
	job, output := newTestJob(t, creds, fetcher, &fakeMailer{})

	if _, err := job.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	fetcher["openai"] = 200
	if _, err := job.Run(context.Background()); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	snap, err := usage.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if v, _ := snap.Get("openai"); v != 200 {
		t.Errorf("openai = %d, want 200 from the latest run", v)
	}
}

func TestJob_Run_UnwritableOutput(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	mailer := &fakeMailer{}
	job := NewJob(Settings{OutputPath: filepath.Join(blocker, "usage.json"), Threshold: 800}, Dependencies{
		Providers:   []string{"openai"},
		Credentials: withEmail(mapSource{"OPENAI_API_KEY": "k"}),
		Fetcher:     fixedFetcher{"openai": 900},
		Mailer:      mailer,
		Logger:      discardLogger(),
	})

	if _, err := job.Run(context.Background()); err == nil {
		t.Fatal("expected write error")
	}
	if len(mailer.sent) != 0 {
		t.Error("no alerts should be sent when the snapshot cannot be written")
	}
}

func TestJob_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job, output := newTestJob(t, mapSource{}, fixedFetcher{}, &fakeMailer{})

	if _, err := job.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("cancelled run must not write a snapshot")
	}
}

func TestJob_Run_PublishAndMetrics(t *testing.T) {
	dir := t.TempDir()
	pub := &fakePublisher{err: errors.New("connection refused")}
	collector := metrics.NewCollector(nil)

	var logs bytes.Buffer
	job := NewJob(Settings{
		OutputPath:  filepath.Join(dir, "usage.json"),
		Threshold:   800,
		MetricsPath: filepath.Join(dir, "usagewatch.prom"),
	}, Dependencies{
		Providers:   []string{"openai", "gemini"},
		Credentials: mapSource{"OPENAI_API_KEY": "k"},
		Fetcher:     fixedFetcher{"openai": 900},
		Mailer:      &fakeMailer{},
		Publisher:   pub,
		Metrics:     collector,
		Logger:      slog.New(slog.NewJSONHandler(&logs, nil)),
	})
	job.newRunID = func() string { return "run-fixed" }

	report, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("publish failure must not fail the run: %v", err)
	}
	if report.Published || report.PublishErr == nil {
		t.Errorf("expected publish error in report, got published=%v err=%v", report.Published, report.PublishErr)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	event := pub.events[0]
	if event.RunID != "run-fixed" {
		t.Errorf("event run_id = %q, want run-fixed", event.RunID)
	}
	if len(event.Breaches) != 1 || event.Breaches[0].Provider != "openai" {
		t.Errorf("unexpected event breaches %+v", event.Breaches)
	}
	if !json.Valid(event.Snapshot) {
		t.Errorf("event snapshot is not JSON: %s", event.Snapshot)
	}

	prom, err := os.ReadFile(filepath.Join(dir, "usagewatch.prom"))
	if err != nil {
		t.Fatalf("metrics textfile not written: %v", err)
	}
	if !strings.Contains(string(prom), `usagewatch_notifications_total{outcome="skipped",provider="openai"} 1`) {
		t.Errorf("missing notification sample:\n%s", prom)
	}
	if !strings.Contains(string(prom), "usagewatch_run_success 1") {
		t.Errorf("missing run success sample:\n%s", prom)
	}

	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		if !strings.Contains(line, `"run_id":"run-fixed"`) {
			t.Errorf("log line missing run_id: %s", line)
		}
	}
}

func TestReport_Summary(t *testing.T) {
	report := &Report{
		RunID:    "r1",
		Duration: 1500 * time.Millisecond,
		Readings: []usage.Reading{
			{Provider: "openai", Usage: 900, KeyConfigured: true, Fetcher: "stub"},
			{Provider: "gateway", Err: errors.New("status 502")},
		},
		Notifications: []alert.Result{
			{Breach: alert.Breach{Provider: "openai", Usage: 900}, Outcome: alert.OutcomeFailed, Err: errors.New("dial tcp: refused")},
		},
	}

	s := report.Summary()
	if s.DurationMS != 1500 {
		t.Errorf("DurationMS = %d, want 1500", s.DurationMS)
	}
	if len(s.Providers) != 2 || s.Providers[1].Error != "status 502" {
		t.Errorf("unexpected providers %+v", s.Providers)
	}
	if len(s.Notifications) != 1 || s.Notifications[0].Outcome != "failed" || s.Notifications[0].Error == "" {
		t.Errorf("unexpected notifications %+v", s.Notifications)
	}
	if _, err := json.Marshal(s); err != nil {
		t.Errorf("summary should marshal: %v", err)
	}
}
