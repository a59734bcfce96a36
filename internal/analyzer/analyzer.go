// Package analyzer attributes symbol sizes to the crate, namespace or module
// that defines them.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coral-mesh/symsize/internal/binary"
	"github.com/coral-mesh/symsize/internal/constants"
	"github.com/coral-mesh/symsize/internal/demangler"
)

// Sizes maps a group key to the total size in bytes of its symbols.
type Sizes map[string]uint64

// Summary describes one aggregation pass.
type Summary struct {
	Symbols    int    // symbols seen
	Qualifying int    // defined with a non-zero size
	Undefined  int    // skipped as undefined
	Unsized    int    // skipped as defined but zero-sized
	TotalBytes uint64 // sum of qualifying sizes
	Groups     int    // distinct group keys
}

// Skipped returns the number of symbols that did not contribute.
func (s Summary) Skipped() int {
	return s.Undefined + s.Unsized
}

// Aggregator sums symbol sizes per group.
type Aggregator struct {
	demangler demangler.Demangler
	logger    zerolog.Logger
}

// New creates an Aggregator. A nil demangler means demangler.None.
func New(d demangler.Demangler, logger zerolog.Logger) *Aggregator {
	if d == nil {
		d = demangler.None
	}
	return &Aggregator{
		demangler: d,
		logger:    logger.With().Str("component", "analyzer").Logger(),
	}
}

// Aggregate consumes syms once. Only defined symbols with a non-zero size
// contribute; each is demangled and its size added to its GroupKey.
func (a *Aggregator) Aggregate(syms []binary.Symbol) (Sizes, Summary) {
	sizes := make(Sizes)
	summary := Summary{Symbols: len(syms)}

	for _, sym := range syms {
		switch {
		case !sym.Defined:
			summary.Undefined++
			continue
		case sym.Size == 0:
			summary.Unsized++
			continue
		}

		name := sym.Name
		if name == "" {
			name = constants.UnknownGroup
		}
		key := GroupKey(a.demangler.Demangle(name))

		sizes[key] += sym.Size
		summary.Qualifying++
		summary.TotalBytes += sym.Size
	}
	summary.Groups = len(sizes)

	a.logger.Info().
		Int("symbols", summary.Symbols).
		Int("qualifying", summary.Qualifying).
		Int("skipped", summary.Skipped()).
		Uint64("total_bytes", summary.TotalBytes).
		Int("groups", summary.Groups).
		Msg("Aggregated symbol sizes")

	return sizes, summary
}

// Run reads all symbols from src and aggregates them.
func (a *Aggregator) Run(src binary.Source) (Sizes, Summary, error) {
	syms, err := src.Symbols()
	if err != nil {
		return nil, Summary{}, fmt.Errorf("failed to read symbols: %w", err)
	}
	a.logger.Debug().Int("symbols", len(syms)).Msg("Read symbol table")

	sizes, summary := a.Aggregate(syms)
	return sizes, summary, nil
}

// GroupKey returns the first "::" segment of a demangled name, or
// "<unknown>" when that segment is empty.
func GroupKey(demangled string) string {
	key, _, _ := strings.Cut(demangled, constants.PathSeparator)
	if key == "" {
		return constants.UnknownGroup
	}
	return key
}
