// Package binary loads object files and exposes their symbol tables.
//
// # Usage
//
//	opts := binary.DefaultOptions()
//	opts.Logger = logger
//
//	f, err := binary.Open("target/release/app", opts)
//	if err != nil {
//		return err
//	}
//	syms, err := f.Symbols()
//
// # Formats
//
// The format is chosen from the leading magic bytes:
//
//   - ELF: symbols from .symtab; sizes are st_size.
//   - Mach-O, thin or universal: symbols from LC_SYMTAB. Universal binaries
//     use the slice matching the host architecture, else the first slice.
//   - PE/COFF: symbols from the COFF symbol table.
//
// Mach-O and COFF do not record symbol sizes. With Options.SynthesizeSizes
// a defined symbol is sized by the distance to the next symbol address in
// its section, capped at the section end.
package binary
