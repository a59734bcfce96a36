package binary

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"
)

type elfFile struct {
	f *elf.File
}

func parseELF(data []byte) (*elfFile, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &elfFile{f: f}, nil
}

func (e *elfFile) Format() string { return "elf" }

// Symbols returns the static symbol table. A stripped binary yields no
// symbols.
func (e *elfFile) Symbols() ([]Symbol, error) {
	syms, err := e.f.Symbols()
	if errors.Is(err, elf.ErrNoSymbols) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ELF symbol table: %w", err)
	}

	out := make([]Symbol, 0, len(syms))
	for _, s := range syms {
		out = append(out, Symbol{
			Name:    s.Name,
			Value:   s.Value,
			Size:    s.Size,
			Defined: elfDefined(s),
			Section: int(s.Section),
		})
	}
	return out, nil
}

func elfDefined(s elf.Symbol) bool {
	if s.Section == elf.SHN_UNDEF {
		return false
	}
	if s.Section >= elf.SHN_LORESERVE && s.Section != elf.SHN_XINDEX {
		return false
	}

	switch elf.ST_TYPE(s.Info) {
	case elf.STT_FUNC, elf.STT_OBJECT:
		return true
	case elf.STT_NOTYPE:
		return s.Size != 0
	default:
		return false
	}
}
