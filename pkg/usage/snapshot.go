package usage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// LastUpdatedKey is the snapshot field holding the collection timestamp.
const LastUpdatedKey = "last_updated"

// TimestampLayout is the layout of the last_updated field.
const TimestampLayout = time.RFC3339Nano

// Snapshot is the result of one poll run: a usage value per provider plus
// the time the values were collected.
//
// Every provider in Providers has exactly one entry in Usage. A value of 0
// means either "no usage" or "no key configured / fetch failed"; the
// distinction is only kept in Reading.
type Snapshot struct {
	Providers   []string
	Usage       map[string]int64
	LastUpdated time.Time
}

// NewSnapshot creates an empty snapshot for the given providers with every
// value set to zero.
func NewSnapshot(providers []string, at time.Time) *Snapshot {
	s := &Snapshot{
		Providers:   append([]string(nil), providers...),
		Usage:       make(map[string]int64, len(providers)),
		LastUpdated: at,
	}
	for _, p := range providers {
		s.Usage[p] = 0
	}
	return s
}

// Set records the usage for a provider, adding it to Providers if needed.
func (s *Snapshot) Set(provider string, value int64) {
	if _, ok := s.Usage[provider]; !ok {
		s.Providers = append(s.Providers, provider)
	}
	s.Usage[provider] = value
}

// Get returns the usage recorded for a provider.
func (s *Snapshot) Get(provider string) (int64, bool) {
	v, ok := s.Usage[provider]
	return v, ok
}

// MarshalJSON encodes the snapshot as a flat object: one integer field per
// provider in provider order, followed by last_updated.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, p := range s.Providers {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", s.Usage[p])
	}

	if len(s.Providers) > 0 {
		buf.WriteByte(',')
	}
	ts, err := json.Marshal(s.LastUpdated.Format(TimestampLayout))
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, "%q:", LastUpdatedKey)
	buf.Write(ts)

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a snapshot written by MarshalJSON, preserving the
// provider order of the document.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("invalid snapshot: expected object")
	}

	out := Snapshot{Usage: make(map[string]int64)}
	seenTimestamp := false

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid snapshot: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("invalid snapshot: expected field name")
		}

		if key == LastUpdatedKey {
			var raw string
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("invalid %s: %w", LastUpdatedKey, err)
			}
			ts, err := time.Parse(TimestampLayout, raw)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", LastUpdatedKey, err)
			}
			out.LastUpdated = ts
			seenTimestamp = true
			continue
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("invalid usage for %q: %w", key, err)
		}
		value, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid usage for %q: %w", key, err)
		}
		if _, dup := out.Usage[key]; dup {
			return fmt.Errorf("invalid snapshot: duplicate provider %q", key)
		}
		out.Set(key, value)
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	if !seenTimestamp {
		return fmt.Errorf("invalid snapshot: missing %s", LastUpdatedKey)
	}

	*s = out
	return nil
}

// Reading is the per-provider outcome of a collection run.
// It carries what the snapshot alone cannot: whether a key was configured
// and why a value fell back to zero.
type Reading struct {
	Provider      string
	Usage         int64
	KeyConfigured bool
	Fetcher       string
	Duration      time.Duration
	Err           error
}
