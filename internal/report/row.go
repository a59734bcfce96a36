package report

import (
	"cmp"
	"slices"
	"time"
)

// Row is one group of a size report.
type Row struct {
	CrateName string `json:"crate_name" csv:"crate_name" header:"Crate"`
	Size      uint64 `json:"size" csv:"size" header:"Size (bytes)"`
}

// Meta describes the analyzed binary.
type Meta struct {
	Binary      string
	Fingerprint string
	AnalyzedAt  time.Time
}

// FromSizes converts a group-to-size mapping into sorted rows. The result is
// never nil.
func FromSizes(sizes map[string]uint64) []Row {
	rows := make([]Row, 0, len(sizes))
	for name, size := range sizes {
		rows = append(rows, Row{CrateName: name, Size: size})
	}
	Sort(rows)
	return rows
}

// Sort orders rows by size descending, then by name ascending.
func Sort(rows []Row) {
	slices.SortFunc(rows, func(a, b Row) int {
		if c := cmp.Compare(b.Size, a.Size); c != 0 {
			return c
		}
		return cmp.Compare(a.CrateName, b.CrateName)
	})
}

// Top returns the first n rows, or all rows when n <= 0.
func Top(rows []Row, n int) []Row {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}

// Total sums the row sizes.
func Total(rows []Row) uint64 {
	var total uint64
	for _, r := range rows {
		total += r.Size
	}
	return total
}
