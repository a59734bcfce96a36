package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/coral-mesh/symsize/internal/errors"
	"github.com/coral-mesh/symsize/internal/safe"
)

var csvHeader = []string{"crate_name", "size"}

// EncodeCSV writes a crate_name,size header followed by one record per row.
func EncodeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.CrateName, strconv.FormatUint(r.Size, 10)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes the CSV export to path.
func WriteCSV(path string, rows []Row, logger zerolog.Logger) (err error) {
	f, err := safe.CreateFile(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV report: %w", err)
	}
	defer errors.CloseInto(&err, f)

	if err := EncodeCSV(f, rows); err != nil {
		return fmt.Errorf("failed to write CSV report: %w", err)
	}
	logger.Debug().Str("path", path).Int("rows", len(rows)).Msg("Wrote CSV report")
	return nil
}
