package binary

import (
	"bytes"
	"fmt"

	"github.com/coral-mesh/symsize/internal/safe"
)

var (
	elfMagic = []byte("\x7fELF")
	peMagic  = []byte("MZ")
	fatMagic = []byte{0xca, 0xfe, 0xba, 0xbe}

	machoMagics = [][]byte{
		{0xfe, 0xed, 0xfa, 0xce}, // 32-bit big endian
		{0xfe, 0xed, 0xfa, 0xcf}, // 64-bit big endian
		{0xce, 0xfa, 0xed, 0xfe}, // 32-bit little endian
		{0xcf, 0xfa, 0xed, 0xfe}, // 64-bit little endian
	}
)

// ReadFile reads the whole binary at path into memory.
func ReadFile(path string, opts Options) ([]byte, error) {
	data, err := safe.ReadFile(path, &safe.ReadOptions{
		MaxSize:       opts.MaxFileSize,
		AllowSymlinks: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	opts.Logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Read binary")
	return data, nil
}

// Open reads and parses the binary at path.
func Open(path string, opts Options) (File, error) {
	data, err := ReadFile(path, opts)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

// Parse interprets data as an object file.
func Parse(data []byte, opts Options) (File, error) {
	var (
		f   File
		err error
	)
	switch {
	case bytes.HasPrefix(data, elfMagic):
		f, err = parseELF(data)
	case hasMachOMagic(data):
		f, err = parseMachO(data, opts)
	case bytes.HasPrefix(data, fatMagic):
		f, err = parseFatMachO(data, opts)
	case bytes.HasPrefix(data, peMagic):
		f, err = parsePE(data, opts)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	opts.Logger.Debug().Str("format", f.Format()).Msg("Parsed object file")
	return f, nil
}

func hasMachOMagic(data []byte) bool {
	for _, magic := range machoMagics {
		if bytes.HasPrefix(data, magic) {
			return true
		}
	}
	return false
}
