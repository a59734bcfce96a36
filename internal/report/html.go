package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/coral-mesh/symsize/internal/constants"
	"github.com/coral-mesh/symsize/internal/errors"
	"github.com/coral-mesh/symsize/internal/safe"
)

//go:embed template.html
var htmlTemplate []byte

// ErrTemplate is returned when a template does not contain exactly one data
// placeholder.
var ErrTemplate = stderrors.New("invalid HTML template")

// RenderHTML substitutes the compact JSON encoding of rows for the
// placeholder in the embedded template.
func RenderHTML(rows []Row) ([]byte, error) {
	return renderTemplate(htmlTemplate, rows)
}

func renderTemplate(tmpl []byte, rows []Row) ([]byte, error) {
	placeholder := []byte(constants.HTMLPlaceholder)
	if n := bytes.Count(tmpl, placeholder); n != 1 {
		return nil, fmt.Errorf("%w: found %d %s placeholders, want 1", ErrTemplate, n, constants.HTMLPlaceholder)
	}

	if rows == nil {
		rows = []Row{}
	}
	// json.Marshal escapes <, > and &, which keeps names such as
	// "<unknown>" from closing the script element.
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report data: %w", err)
	}
	return bytes.Replace(tmpl, placeholder, data, 1), nil
}

// WriteHTML writes the HTML report to path.
func WriteHTML(path string, rows []Row, logger zerolog.Logger) (err error) {
	page, err := RenderHTML(rows)
	if err != nil {
		return err
	}

	f, err := safe.CreateFile(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML report: %w", err)
	}
	defer errors.CloseInto(&err, f)

	if _, err := f.Write(page); err != nil {
		return fmt.Errorf("failed to write HTML report: %w", err)
	}
	logger.Debug().Str("path", path).Int("bytes", len(page)).Msg("Wrote HTML report")
	return nil
}
