package report

import (
	"fmt"

	"github.com/google/pprof/profile"
	"github.com/rs/zerolog"

	"github.com/coral-mesh/symsize/internal/errors"
	"github.com/coral-mesh/symsize/internal/safe"
)

// BuildProfile returns a profile with one sample per row, valued in bytes,
// so that `go tool pprof -top` lists the groups by size.
func BuildProfile(rows []Row, meta Meta) (*profile.Profile, error) {
	p := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "size", Unit: "bytes"}},
		PeriodType: &profile.ValueType{Type: "size", Unit: "bytes"},
		Period:     1,
		Mapping: []*profile.Mapping{{
			ID:      1,
			File:    meta.Binary,
			BuildID: meta.Fingerprint,
		}},
	}
	if !meta.AnalyzedAt.IsZero() {
		p.TimeNanos = meta.AnalyzedAt.UnixNano()
	}

	mapping := p.Mapping[0]
	for i, r := range rows {
		id := uint64(i + 1)
		// Sample values are signed; sizes beyond MaxInt64 are clamped.
		value, _ := safe.Uint64ToInt64(r.Size)

		fn := &profile.Function{ID: id, Name: r.CrateName, SystemName: r.CrateName}
		loc := &profile.Location{
			ID:      id,
			Mapping: mapping,
			Line:    []profile.Line{{Function: fn}},
		}
		p.Function = append(p.Function, fn)
		p.Location = append(p.Location, loc)
		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{value},
			Label:    map[string][]string{"crate": {r.CrateName}},
		})
	}

	if err := p.CheckValid(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	return p, nil
}

// WritePprof writes a gzipped pprof profile to path.
func WritePprof(path string, rows []Row, meta Meta, logger zerolog.Logger) (err error) {
	p, err := BuildProfile(rows, meta)
	if err != nil {
		return err
	}

	f, err := safe.CreateFile(path)
	if err != nil {
		return fmt.Errorf("failed to create pprof profile: %w", err)
	}
	defer errors.CloseInto(&err, f)

	// Write compresses the profile.
	if err := p.Write(f); err != nil {
		return fmt.Errorf("failed to write pprof profile: %w", err)
	}
	logger.Debug().Str("path", path).Int("samples", len(p.Sample)).Msg("Wrote pprof profile")
	return nil
}
