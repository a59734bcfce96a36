package binary

import (
	"bytes"
	"debug/pe"
	"strings"
)

const (
	peClassStatic = 3   // IMAGE_SYM_CLASS_STATIC
	peClassFile   = 103 // IMAGE_SYM_CLASS_FILE
)

type peFile struct {
	f          *pe.File
	synthesize bool
}

func parsePE(data []byte, opts Options) (*peFile, error) {
	f, err := pe.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &peFile{f: f, synthesize: opts.SynthesizeSizes}, nil
}

func (p *peFile) Format() string { return "pe" }

// Symbols returns the COFF symbol table. Symbol values are rebased onto
// their section's virtual address so that sizes can be synthesized.
func (p *peFile) Symbols() ([]Symbol, error) {
	out := make([]Symbol, 0, len(p.f.Symbols))
	for _, s := range p.f.Symbols {
		sym := Symbol{
			Name:    s.Name,
			Value:   uint64(s.Value),
			Defined: peDefined(s),
		}
		if s.SectionNumber > 0 && int(s.SectionNumber) <= len(p.f.Sections) {
			sym.Section = int(s.SectionNumber)
			sym.Value += uint64(p.f.Sections[s.SectionNumber-1].VirtualAddress)
		}
		out = append(out, sym)
	}

	if p.synthesize {
		sections := make(map[int]sectionRange, len(p.f.Sections))
		for i, sect := range p.f.Sections {
			sections[i+1] = sectionRange{
				addr: uint64(sect.VirtualAddress),
				size: uint64(max(sect.VirtualSize, sect.Size)),
			}
		}
		synthesizeSizes(out, sections)
	}
	return out, nil
}

// peDefined excludes section-definition and file records, which carry a
// section number but do not name code or data.
func peDefined(s *pe.Symbol) bool {
	if s.SectionNumber <= 0 {
		return false
	}
	if s.StorageClass == peClassFile {
		return false
	}
	if s.StorageClass == peClassStatic && s.Value == 0 && strings.HasPrefix(s.Name, ".") {
		return false
	}
	return true
}
