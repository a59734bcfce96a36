package testutil

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// TextSection is the section index of .text in binaries built by BuildELF.
const TextSection = elf.SectionIndex(1)

// TextAddr is the load address of .text in binaries built by BuildELF.
const TextAddr = 0x401000

const textSize = 0x1000

// ELFSymbol describes one entry of a synthesized symbol table.
type ELFSymbol struct {
	Name    string
	Value   uint64
	Size    uint64
	Type    elf.SymType
	Bind    elf.SymBind
	Section elf.SectionIndex
}

// Func returns a global function symbol defined in .text.
func Func(name string, offset, size uint64) ELFSymbol {
	return ELFSymbol{
		Name:    name,
		Value:   TextAddr + offset,
		Size:    size,
		Type:    elf.STT_FUNC,
		Bind:    elf.STB_GLOBAL,
		Section: TextSection,
	}
}

// Undefined returns a global symbol that is only referenced.
func Undefined(name string) ELFSymbol {
	return ELFSymbol{
		Name:    name,
		Type:    elf.STT_FUNC,
		Bind:    elf.STB_GLOBAL,
		Section: elf.SHN_UNDEF,
	}
}

// BuildELF returns a little-endian ELF64 executable whose .symtab holds syms.
// The null symbol is added automatically.
func BuildELF(syms []ELFSymbol) []byte {
	return buildELF(syms, true)
}

// BuildStrippedELF returns an ELF64 executable without a .symtab.
func BuildStrippedELF() []byte {
	return buildELF(nil, false)
}

// WriteELF writes BuildELF(syms) into a temporary file and returns its path.
func WriteELF(t *testing.T, syms []ELFSymbol) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.elf")
	if err := os.WriteFile(path, BuildELF(syms), 0o600); err != nil {
		t.Fatalf("failed to write ELF fixture: %v", err)
	}
	return path
}

type stringTable struct {
	buf bytes.Buffer
}

func newStringTable() *stringTable {
	st := &stringTable{}
	st.buf.WriteByte(0)
	return st
}

func (st *stringTable) add(s string) uint32 {
	if s == "" {
		return 0
	}
	off := uint32(st.buf.Len())
	st.buf.WriteString(s)
	st.buf.WriteByte(0)
	return off
}

func buildELF(syms []ELFSymbol, withSymtab bool) []byte {
	le := binary.LittleEndian
	headerSize := binary.Size(elf.Header64{})
	shentsize := binary.Size(elf.Section64{})

	shstrtab := newStringTable()
	textName := shstrtab.add(".text")
	symtabName := shstrtab.add(".symtab")
	strtabName := shstrtab.add(".strtab")
	shstrtabName := shstrtab.add(".shstrtab")

	text := make([]byte, textSize)

	var symtab bytes.Buffer
	strtab := newStringTable()
	if withSymtab {
		_ = binary.Write(&symtab, le, elf.Sym64{})
		for _, s := range syms {
			_ = binary.Write(&symtab, le, elf.Sym64{
				Name:  strtab.add(s.Name),
				Info:  elf.ST_INFO(s.Bind, s.Type),
				Shndx: uint16(s.Section),
				Value: s.Value,
				Size:  s.Size,
			})
		}
	}

	// Section contents follow the header; section headers come last.
	var body bytes.Buffer
	offset := func() uint64 { return uint64(headerSize + body.Len()) }

	textOff := offset()
	body.Write(text)
	symtabOff := offset()
	body.Write(symtab.Bytes())
	strtabOff := offset()
	body.Write(strtab.buf.Bytes())
	shstrtabOff := offset()
	body.Write(shstrtab.buf.Bytes())

	sections := []elf.Section64{
		{},
		{
			Name:      textName,
			Type:      uint32(elf.SHT_PROGBITS),
			Flags:     uint64(elf.SHF_ALLOC | elf.SHF_EXECINSTR),
			Addr:      TextAddr,
			Off:       textOff,
			Size:      textSize,
			Addralign: 16,
		},
	}
	if withSymtab {
		sections = append(sections,
			elf.Section64{
				Name:      symtabName,
				Type:      uint32(elf.SHT_SYMTAB),
				Off:       symtabOff,
				Size:      uint64(symtab.Len()),
				Link:      3,
				Info:      1,
				Addralign: 8,
				Entsize:   elf.Sym64Size,
			},
			elf.Section64{
				Name:      strtabName,
				Type:      uint32(elf.SHT_STRTAB),
				Off:       strtabOff,
				Size:      uint64(strtab.buf.Len()),
				Addralign: 1,
			},
		)
	}
	sections = append(sections, elf.Section64{
		Name:      shstrtabName,
		Type:      uint32(elf.SHT_STRTAB),
		Off:       shstrtabOff,
		Size:      uint64(shstrtab.buf.Len()),
		Addralign: 1,
	})

	hdr := elf.Header64{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_X86_64),
		Version:   uint32(elf.EV_CURRENT),
		Entry:     TextAddr,
		Shoff:     offset(),
		Ehsize:    uint16(headerSize),
		Shentsize: uint16(shentsize),
		Shnum:     uint16(len(sections)),
		Shstrndx:  uint16(len(sections) - 1),
	}
	copy(hdr.Ident[:], elf.ELFMAG)
	hdr.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	hdr.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	var out bytes.Buffer
	_ = binary.Write(&out, le, hdr)
	out.Write(body.Bytes())
	for _, sh := range sections {
		_ = binary.Write(&out, le, sh)
	}
	return out.Bytes()
}
