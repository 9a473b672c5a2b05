package alert

import (
	"fmt"

	"mercator-hq/usagewatch/pkg/usage"
)

// Breach is a provider whose usage exceeded the alert threshold.
type Breach struct {
	Provider  string
	Usage     int64
	Threshold int64
}

// Evaluate returns one breach per provider whose usage is strictly greater
// than threshold, in snapshot provider order.
func Evaluate(snap *usage.Snapshot, threshold int64) []Breach {
	var breaches []Breach
	for _, provider := range snap.Providers {
		value := snap.Usage[provider]
		if value > threshold {
			breaches = append(breaches, Breach{
				Provider:  provider,
				Usage:     value,
				Threshold: threshold,
			})
		}
	}
	return breaches
}

// Subject returns the alert email subject for the breach.
func (b Breach) Subject() string {
	return fmt.Sprintf("High API Usage Alert: %s", b.Provider)
}

// Body returns the plain-text alert email body for the breach.
func (b Breach) Body() string {
	return fmt.Sprintf("Your usage for %s has reached %d.", b.Provider, b.Usage)
}
