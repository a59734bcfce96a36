package testutil

import (
	"bytes"
	"debug/macho"
	"encoding/binary"
)

// MachOTextAddr is the address of __TEXT,__text in binaries built by
// BuildMachO.
const MachOTextAddr = 0x100000000

// MachOTextSize is the size of __TEXT,__text in binaries built by BuildMachO.
const MachOTextSize = 0x100

const (
	machoNExt   = 0x01
	machoNSect  = 0x0e
	machoNBnsym = 0x2e // N_STAB entry whose type bits also read as N_SECT
	fatAlign    = 12
)

// MachOSymbol describes one nlist_64 entry.
type MachOSymbol struct {
	Name  string
	Type  uint8
	Sect  uint8
	Value uint64
}

// MachOFunc returns an external symbol defined in __text.
func MachOFunc(name string, offset uint64) MachOSymbol {
	return MachOSymbol{Name: name, Type: machoNSect | machoNExt, Sect: 1, Value: MachOTextAddr + offset}
}

// MachOUndefined returns an external symbol that is only referenced.
func MachOUndefined(name string) MachOSymbol {
	return MachOSymbol{Name: name, Type: machoNExt}
}

// MachODebug returns a debugger (N_STAB) entry pointing into __text.
func MachODebug(name string, offset uint64) MachOSymbol {
	return MachOSymbol{Name: name, Type: machoNBnsym, Sect: 1, Value: MachOTextAddr + offset}
}

// FatSlice is one architecture of a universal binary.
type FatSlice struct {
	Cpu  macho.Cpu
	Syms []MachOSymbol
}

// BuildMachO returns a little-endian 64-bit Mach-O executable with a single
// __TEXT,__text section and an LC_SYMTAB holding syms.
func BuildMachO(cpu macho.Cpu, syms []MachOSymbol) []byte {
	le := binary.LittleEndian

	headerSize := binary.Size(macho.FileHeader{}) + 4
	segSize := binary.Size(macho.Segment64{}) + binary.Size(macho.Section64{})
	symtabCmdSize := binary.Size(macho.SymtabCmd{})
	cmdSize := segSize + symtabCmdSize

	textOff := headerSize + cmdSize
	symOff := textOff + MachOTextSize
	strOff := symOff + len(syms)*binary.Size(macho.Nlist64{})

	strtab := newStringTable()
	nlists := make([]macho.Nlist64, len(syms))
	for i, s := range syms {
		nlists[i] = macho.Nlist64{
			Name:  strtab.add(s.Name),
			Type:  s.Type,
			Sect:  s.Sect,
			Value: s.Value,
		}
	}

	seg := macho.Segment64{
		Cmd:     macho.LoadCmdSegment64,
		Len:     uint32(segSize),
		Addr:    MachOTextAddr,
		Memsz:   MachOTextSize,
		Offset:  uint64(textOff),
		Filesz:  MachOTextSize,
		Maxprot: 5,
		Prot:    5,
		Nsect:   1,
	}
	copy(seg.Name[:], "__TEXT")

	sect := macho.Section64{
		Addr:   MachOTextAddr,
		Size:   MachOTextSize,
		Offset: uint32(textOff),
		Align:  4,
	}
	copy(sect.Name[:], "__text")
	copy(sect.Seg[:], "__TEXT")

	symtab := macho.SymtabCmd{
		Cmd:     macho.LoadCmdSymtab,
		Len:     uint32(symtabCmdSize),
		Symoff:  uint32(symOff),
		Nsyms:   uint32(len(syms)),
		Stroff:  uint32(strOff),
		Strsize: uint32(strtab.buf.Len()),
	}

	var out bytes.Buffer
	_ = binary.Write(&out, le, macho.FileHeader{
		Magic: macho.Magic64,
		Cpu:   cpu,
		Type:  macho.TypeExec,
		Ncmd:  2,
		Cmdsz: uint32(cmdSize),
	})
	_ = binary.Write(&out, le, uint32(0)) // reserved
	_ = binary.Write(&out, le, seg)
	_ = binary.Write(&out, le, sect)
	_ = binary.Write(&out, le, symtab)
	out.Write(make([]byte, MachOTextSize))
	_ = binary.Write(&out, le, nlists)
	out.Write(strtab.buf.Bytes())
	return out.Bytes()
}

// BuildFatMachO returns a universal binary holding one BuildMachO image per
// slice, in order.
func BuildFatMachO(slices ...FatSlice) []byte {
	be := binary.BigEndian

	images := make([][]byte, len(slices))
	headers := make([]macho.FatArchHeader, len(slices))
	offset := uint32(1 << fatAlign)
	for i, s := range slices {
		images[i] = BuildMachO(s.Cpu, s.Syms)
		headers[i] = macho.FatArchHeader{
			Cpu:    s.Cpu,
			Offset: offset,
			Size:   uint32(len(images[i])),
			Align:  fatAlign,
		}
		offset = alignUp(offset+headers[i].Size, 1<<fatAlign)
	}

	var out bytes.Buffer
	_ = binary.Write(&out, be, macho.MagicFat)
	_ = binary.Write(&out, be, uint32(len(slices)))
	_ = binary.Write(&out, be, headers)
	for i, img := range images {
		out.Write(make([]byte, int(headers[i].Offset)-out.Len()))
		out.Write(img)
	}
	return out.Bytes()
}

func alignUp(v, align uint32) uint32 {
	return (v + align - 1) &^ (align - 1)
}
