package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mercator-hq/usagewatch/pkg/alert"
	"mercator-hq/usagewatch/pkg/credentials"
	"mercator-hq/usagewatch/pkg/publish"
	"mercator-hq/usagewatch/pkg/telemetry/metrics"
	"mercator-hq/usagewatch/pkg/usage"
)

// Publisher receives the snapshot event after the file is written.
type Publisher interface {
	Publish(ctx context.Context, event publish.Event) (int64, error)
}

// Settings holds the per-run knobs.
type Settings struct {
	OutputPath  string
	Threshold   int64
	DryRun      bool
	MetricsPath string
}

// Dependencies are the collaborators a Job drives. Publisher and Metrics
// are optional.
type Dependencies struct {
	Providers   []string
	Credentials credentials.Source
	Fetcher     usage.Fetcher
	Mailer      alert.Mailer
	Publisher   Publisher
	Metrics     *metrics.Collector
	Logger      *slog.Logger
}

// Job performs one poll run: collect, write, publish, alert.
type Job struct {
	settings Settings
	deps     Dependencies
	logger   *slog.Logger
	newRunID func() string
}

// NewJob creates a job.
func NewJob(settings Settings, deps Dependencies) *Job {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Job{
		settings: settings,
		deps:     deps,
		logger:   logger,
		newRunID: uuid.NewString,
	}
}

// Run executes the job once. Only a failed snapshot write, or cancellation
// before the write, is returned as an error; fetch, publish and mail
// problems are logged and reflected in the report.
func (j *Job) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	runID := j.newRunID()
	logger := j.logger.With("run_id", runID)

	report := &Report{
		RunID:      runID,
		OutputPath: j.settings.OutputPath,
		Threshold:  j.settings.Threshold,
		StartedAt:  start,
	}

	logger.Info("starting usage poll",
		"providers", len(j.deps.Providers),
		"output", j.settings.OutputPath,
		"threshold", j.settings.Threshold,
	)

	collector := usage.NewCollector(j.deps.Providers, j.deps.Credentials, j.deps.Fetcher, logger)
	snap, readings := collector.Collect(ctx)
	report.Snapshot = snap
	report.Readings = readings
	j.recordReadings(readings)

	if err := ctx.Err(); err != nil {
		j.finish(logger, report, false)
		return report, fmt.Errorf("poll cancelled before writing snapshot: %w", err)
	}

	if err := usage.WriteFile(j.settings.OutputPath, snap); err != nil {
		logger.Error("failed to write usage snapshot", "path", j.settings.OutputPath, "error", err)
		j.finish(logger, report, false)
		return report, err
	}
	logger.Info("usage snapshot written", "path", j.settings.OutputPath)

	report.Breaches = alert.Evaluate(snap, j.settings.Threshold)

	if j.deps.Publisher != nil {
		j.publish(ctx, logger, report)
	}

	if len(report.Breaches) == 0 {
		logger.Info("all providers within threshold")
	}

	notifier := alert.NewNotifier(j.deps.Credentials, j.deps.Mailer,
		alert.WithDryRun(j.settings.DryRun),
		alert.WithLogger(logger),
	)
	report.Notifications = notifier.NotifyAll(ctx, report.Breaches)
	if j.deps.Metrics != nil {
		for _, n := range report.Notifications {
			j.deps.Metrics.RecordNotification(n.Breach.Provider, string(n.Outcome))
		}
	}

	j.finish(logger, report, true)
	return report, nil
}

func (j *Job) recordReadings(readings []usage.Reading) {
	if j.deps.Metrics == nil {
		return
	}
	for _, r := range readings {
		j.deps.Metrics.RecordProvider(r.Provider, r.Usage, r.KeyConfigured, r.Duration, r.Err != nil)
	}
}

func (j *Job) publish(ctx context.Context, logger *slog.Logger, report *Report) {
	snapJSON, err := json.Marshal(report.Snapshot)
	if err != nil {
		report.PublishErr = err
		logger.Warn("failed to encode snapshot for publishing", "error", err)
		return
	}

	breaches := make([]publish.BreachEvent, 0, len(report.Breaches))
	for _, b := range report.Breaches {
		breaches = append(breaches, publish.BreachEvent{
			Provider:  b.Provider,
			Usage:     b.Usage,
			Threshold: b.Threshold,
		})
	}

	receivers, err := j.deps.Publisher.Publish(ctx, publish.Event{
		RunID:    report.RunID,
		Snapshot: snapJSON,
		Breaches: breaches,
	})
	if err != nil {
		report.PublishErr = err
		logger.Warn("failed to publish snapshot", "error", err)
		return
	}
	report.Published = true
	logger.Debug("snapshot published", "receivers", receivers)
}

// finish stamps the duration and flushes metrics.
func (j *Job) finish(logger *slog.Logger, report *Report, success bool) {
	report.Duration = time.Since(report.StartedAt)

	logger.Info("usage poll finished",
		"success", success,
		"breaches", len(report.Breaches),
		"duration", report.Duration,
	)

	if j.deps.Metrics == nil {
		return
	}
	j.deps.Metrics.RecordRun(time.Now(), report.Duration, len(report.Breaches), success)
	if j.settings.MetricsPath == "" {
		return
	}
	if err := j.deps.Metrics.WriteTextfile(j.settings.MetricsPath); err != nil {
		logger.Warn("failed to write metrics textfile", "error", err)
	}
}
