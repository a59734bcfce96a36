package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/coral-mesh/symsize/internal/errors"
	"github.com/coral-mesh/symsize/internal/safe"
)

// EncodeJSON writes rows as a JSON array indented by two spaces. No rows
// encode as [].
func EncodeJSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteJSON writes the JSON export to path.
func WriteJSON(path string, rows []Row, logger zerolog.Logger) (err error) {
	f, err := safe.CreateFile(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON report: %w", err)
	}
	defer errors.CloseInto(&err, f)

	if err := EncodeJSON(f, rows); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	logger.Debug().Str("path", path).Int("rows", len(rows)).Msg("Wrote JSON report")
	return nil
}
