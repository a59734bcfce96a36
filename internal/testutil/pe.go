package testutil

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
)

// Layout of binaries built by BuildPE. .data has no raw data, like .bss.
const (
	PETextAddr = 0x1000
	PETextSize = 0x200
	PEDataAddr = 0x3000
	PEDataSize = 0x100
)

const (
	peSignatureOffset = 0x40
	peTypeFunction    = 0x20
	peClassExternal   = 2
	peClassStatic     = 3
	peClassFile       = 103
	peSectionDebug    = -2
)

// PESymbol describes one primary COFF symbol record. Aux zeroed auxiliary
// records follow it in the table.
type PESymbol struct {
	Name          string
	Value         uint32
	SectionNumber int16
	Type          uint16
	StorageClass  uint8
	Aux           uint8
}

// PEFunc returns an external function at offset into .text.
func PEFunc(name string, offset uint32) PESymbol {
	return PESymbol{Name: name, Value: offset, SectionNumber: 1, Type: peTypeFunction, StorageClass: peClassExternal}
}

// PEData returns an external data symbol at offset into .data.
func PEData(name string, offset uint32) PESymbol {
	return PESymbol{Name: name, Value: offset, SectionNumber: 2, StorageClass: peClassExternal}
}

// PEStatic returns a file-local symbol at offset into section.
func PEStatic(name string, section int16, offset uint32) PESymbol {
	return PESymbol{Name: name, Value: offset, SectionNumber: section, StorageClass: peClassStatic}
}

// PEUndefined returns an external symbol that is only referenced.
func PEUndefined(name string) PESymbol {
	return PESymbol{Name: name, Type: peTypeFunction, StorageClass: peClassExternal}
}

// PESectionRecord returns the section-definition record for section.
func PESectionRecord(name string, section int16) PESymbol {
	return PESymbol{Name: name, SectionNumber: section, StorageClass: peClassStatic, Aux: 1}
}

// PESourceFile returns a .file record.
func PESourceFile(section int16) PESymbol {
	return PESymbol{Name: ".file", SectionNumber: section, StorageClass: peClassFile, Aux: 1}
}

// PESourceFileDebug returns a .file record in the debug pseudo-section, as
// linkers emit it.
func PESourceFileDebug() PESymbol {
	return PESourceFile(peSectionDebug)
}

// BuildPE returns an AMD64 PE image with .text and .data sections and a
// COFF symbol table holding syms. Names longer than eight bytes go to the
// string table.
func BuildPE(syms []PESymbol) []byte {
	le := binary.LittleEndian

	sectionHeaderSize := binary.Size(pe.SectionHeader32{})
	headersEnd := peSignatureOffset + 4 + binary.Size(pe.FileHeader{}) + 2*sectionHeaderSize
	textOff := alignUp(uint32(headersEnd), 0x200)
	symOff := textOff + PETextSize

	var strtab bytes.Buffer
	records := make([]pe.COFFSymbol, 0, len(syms))
	for _, s := range syms {
		rec := pe.COFFSymbol{
			Value:              s.Value,
			SectionNumber:      s.SectionNumber,
			Type:               s.Type,
			StorageClass:       s.StorageClass,
			NumberOfAuxSymbols: s.Aux,
		}
		if len(s.Name) <= len(rec.Name) {
			copy(rec.Name[:], s.Name)
		} else {
			le.PutUint32(rec.Name[4:], uint32(4+strtab.Len()))
			strtab.WriteString(s.Name)
			strtab.WriteByte(0)
		}
		records = append(records, rec)
		for range s.Aux {
			records = append(records, pe.COFFSymbol{})
		}
	}

	sections := []pe.SectionHeader32{
		{
			VirtualSize:      PETextSize,
			VirtualAddress:   PETextAddr,
			SizeOfRawData:    PETextSize,
			PointerToRawData: textOff,
			Characteristics:  pe.IMAGE_SCN_CNT_CODE | pe.IMAGE_SCN_MEM_EXECUTE | pe.IMAGE_SCN_MEM_READ,
		},
		{
			VirtualSize:     PEDataSize,
			VirtualAddress:  PEDataAddr,
			Characteristics: pe.IMAGE_SCN_CNT_UNINITIALIZED_DATA | pe.IMAGE_SCN_MEM_READ | pe.IMAGE_SCN_MEM_WRITE,
		},
	}
	copy(sections[0].Name[:], ".text")
	copy(sections[1].Name[:], ".data")

	var out bytes.Buffer
	dos := make([]byte, peSignatureOffset)
	copy(dos, "MZ")
	le.PutUint32(dos[0x3c:], peSignatureOffset)
	out.Write(dos)
	out.WriteString("PE\x00\x00")
	_ = binary.Write(&out, le, pe.FileHeader{
		Machine:              pe.IMAGE_FILE_MACHINE_AMD64,
		NumberOfSections:     uint16(len(sections)),
		PointerToSymbolTable: symOff,
		NumberOfSymbols:      uint32(len(records)),
		Characteristics:      pe.IMAGE_FILE_EXECUTABLE_IMAGE,
	})
	_ = binary.Write(&out, le, sections)
	out.Write(make([]byte, int(textOff)-out.Len()))
	out.Write(make([]byte, PETextSize))
	_ = binary.Write(&out, le, records)
	_ = binary.Write(&out, le, uint32(4+strtab.Len()))
	out.Write(strtab.Bytes())
	return out.Bytes()
}
