package binary

import (
	"bytes"
	"debug/macho"
	"fmt"
	"runtime"
)

const (
	machoTypeStab = 0xe0 // N_STAB
	machoTypeMask = 0x0e // N_TYPE
	machoTypeSect = 0x0e // N_SECT
)

var hostCPU = map[string]macho.Cpu{
	"386":   macho.Cpu386,
	"amd64": macho.CpuAmd64,
	"arm":   macho.CpuArm,
	"arm64": macho.CpuArm64,
	"ppc64": macho.CpuPpc64,
}

type machoFile struct {
	f          *macho.File
	synthesize bool
}

func parseMachO(data []byte, opts Options) (*machoFile, error) {
	f, err := macho.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &machoFile{f: f, synthesize: opts.SynthesizeSizes}, nil
}

// parseFatMachO picks the slice for the host architecture, falling back to
// the first slice.
func parseFatMachO(data []byte, opts Options) (*machoFile, error) {
	fat, err := macho.NewFatFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(fat.Arches) == 0 {
		return nil, fmt.Errorf("universal binary has no architectures")
	}

	arch := fat.Arches[0]
	if cpu, ok := hostCPU[runtime.GOARCH]; ok {
		for _, a := range fat.Arches {
			if a.Cpu == cpu {
				arch = a
				break
			}
		}
	}

	opts.Logger.Debug().
		Int("arches", len(fat.Arches)).
		Str("selected", arch.Cpu.String()).
		Msg("Selected universal binary slice")

	return &machoFile{f: arch.File, synthesize: opts.SynthesizeSizes}, nil
}

func (m *machoFile) Format() string { return "macho" }

func (m *machoFile) Symbols() ([]Symbol, error) {
	if m.f.Symtab == nil {
		return nil, nil
	}

	out := make([]Symbol, 0, len(m.f.Symtab.Syms))
	for _, s := range m.f.Symtab.Syms {
		out = append(out, Symbol{
			Name:    s.Name,
			Value:   s.Value,
			Defined: machoDefined(s),
			Section: int(s.Sect),
		})
	}

	if m.synthesize {
		sections := make(map[int]sectionRange, len(m.f.Sections))
		for i, sect := range m.f.Sections {
			sections[i+1] = sectionRange{addr: sect.Addr, size: sect.Size}
		}
		synthesizeSizes(out, sections)
	}
	return out, nil
}

func machoDefined(s macho.Symbol) bool {
	return s.Type&machoTypeStab == 0 && s.Type&machoTypeMask == machoTypeSect
}
