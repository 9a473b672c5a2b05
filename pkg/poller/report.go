package poller

import (
	"time"

	"mercator-hq/usagewatch/pkg/alert"
	"mercator-hq/usagewatch/pkg/usage"
)

// Report describes one finished run.
type Report struct {
	RunID         string
	OutputPath    string
	Threshold     int64
	StartedAt     time.Time
	Duration      time.Duration
	Snapshot      *usage.Snapshot
	Readings      []usage.Reading
	Breaches      []alert.Breach
	Notifications []alert.Result
	Published     bool
	PublishErr    error
}

// Summary is the JSON view of a report.
type Summary struct {
	RunID         string                `json:"run_id"`
	OutputPath    string                `json:"output_path"`
	Threshold     int64                 `json:"threshold"`
	DurationMS    int64                 `json:"duration_ms"`
	Snapshot      *usage.Snapshot       `json:"snapshot,omitempty"`
	Providers     []ProviderSummary     `json:"providers"`
	Notifications []NotificationSummary `json:"notifications"`
	Published     bool                  `json:"published"`
}

// ProviderSummary is one provider's reading.
type ProviderSummary struct {
	Provider      string `json:"provider"`
	Usage         int64  `json:"usage"`
	KeyConfigured bool   `json:"key_configured"`
	Fetcher       string `json:"fetcher,omitempty"`
	Error         string `json:"error,omitempty"`
}

// NotificationSummary is one alert attempt.
type NotificationSummary struct {
	Provider string `json:"provider"`
	Usage    int64  `json:"usage"`
	Outcome  string `json:"outcome"`
	Reason   string `json:"reason,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Summary flattens the report for display.
func (r *Report) Summary() Summary {
	s := Summary{
		RunID:         r.RunID,
		OutputPath:    r.OutputPath,
		Threshold:     r.Threshold,
		DurationMS:    r.Duration.Milliseconds(),
		Snapshot:      r.Snapshot,
		Providers:     make([]ProviderSummary, 0, len(r.Readings)),
		Notifications: make([]NotificationSummary, 0, len(r.Notifications)),
		Published:     r.Published,
	}

	for _, rd := range r.Readings {
		ps := ProviderSummary{
			Provider:      rd.Provider,
			Usage:         rd.Usage,
			KeyConfigured: rd.KeyConfigured,
			Fetcher:       rd.Fetcher,
		}
		if rd.Err != nil {
			ps.Error = rd.Err.Error()
		}
		s.Providers = append(s.Providers, ps)
	}

	for _, n := range r.Notifications {
		ns := NotificationSummary{
			Provider: n.Breach.Provider,
			Usage:    n.Breach.Usage,
			Outcome:  string(n.Outcome),
			Reason:   n.Reason,
		}
		if n.Err != nil {
			ns.Error = n.Err.Error()
		}
		s.Notifications = append(s.Notifications, ns)
	}

	return s
}
