// Package demangler turns mangled linker symbol names back into source paths.
package demangler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ianlancetaylor/demangle"
)

// Demangler converts a raw symbol name to its source-level form. Names that
// are not mangled, or fail to demangle, are returned unchanged.
type Demangler interface {
	Demangle(name string) string
}

// Func adapts a plain function to the Demangler interface.
type Func func(name string) string

// Demangle calls f(name).
func (f Func) Demangle(name string) string { return f(name) }

var (
	// Auto recognizes legacy Rust (_ZN...17h<hash>E), Rust v0 (_R) and
	// Itanium C++ names, also with the extra leading underscore Mach-O
	// adds. Function parameter lists are dropped and legacy Rust hashes are
	// removed.
	Auto Demangler = Func(autoDemangle)

	// None returns names as they appear in the symbol table.
	None Demangler = Func(func(name string) string { return name })
)

func autoDemangle(name string) string {
	out, err := demangle.ToString(name, demangle.NoParams)
	if err != nil {
		out, err = demangle.ToString(strings.TrimPrefix(name, "_"), demangle.NoParams)
	}
	if err != nil {
		return name
	}
	return out
}

var registry = map[string]Demangler{
	"auto": Auto,
	"none": None,
}

// Names lists the demanglers accepted by ByName.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns the demangler registered under name.
func ByName(name string) (Demangler, error) {
	d, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown demangler %q, must be one of: %s", name, strings.Join(Names(), ", "))
	}
	return d, nil
}
