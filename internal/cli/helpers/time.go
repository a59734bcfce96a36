package helpers

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// AddSinceFlag adds a --since flag parsed by ParseSince.
func AddSinceFlag(flags *pflag.FlagSet, since *string) {
	flags.StringVar(since, "since", "", "Only include entries since a duration ago (24h) or a time (RFC3339)")
}

// ParseSince interprets s as either a duration before now ("24h", "30m") or
// an absolute time (RFC3339, "2006-01-02T15:04:05" or "2006-01-02"). An empty
// string yields the zero time.
func ParseSince(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return time.Time{}, fmt.Errorf("invalid --since duration %q: must not be negative", s)
		}
		return now.Add(-d), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --since value %q: use a duration (24h) or RFC3339 time", s)
}
