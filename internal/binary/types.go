package binary

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/coral-mesh/symsize/internal/constants"
)

var (
	// ErrRead is returned when the input file cannot be read.
	ErrRead = errors.New("failed to read binary")

	// ErrUnknownFormat is returned when the input is not a supported object file.
	ErrUnknownFormat = errors.New("unrecognized object file format")

	// ErrMalformed is returned when the input looks like a supported format
	// but fails to parse.
	ErrMalformed = errors.New("malformed object file")
)

// Symbol is one entry of an object file's symbol table.
type Symbol struct {
	// Name is the raw (possibly mangled) name. Empty means absent.
	Name string

	// Value is the symbol address.
	Value uint64

	// Size is the size in bytes, zero when unknown.
	Size uint64

	// Defined reports whether the object file defines the symbol, as
	// opposed to referencing it.
	Defined bool

	// Section is the 1-based index of the defining section, 0 for none.
	Section int
}

// Source produces the symbols of an object file.
type Source interface {
	Symbols() ([]Symbol, error)
}

// File is a parsed object file.
type File interface {
	Source

	// Format names the container format: "elf", "macho" or "pe".
	Format() string
}

// Options configures loading.
type Options struct {
	// MaxFileSize is the largest input accepted, in bytes.
	MaxFileSize int64

	// SynthesizeSizes derives sizes for formats that do not record them.
	SynthesizeSizes bool

	// Logger for debug messages.
	Logger zerolog.Logger
}

// DefaultOptions returns the default loading options.
func DefaultOptions() Options {
	return Options{
		MaxFileSize:     constants.DefaultMaxFileSize,
		SynthesizeSizes: true,
		Logger:          zerolog.Nop(),
	}
}
