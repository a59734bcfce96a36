package binary

import (
	"cmp"
	"slices"
)

type sectionRange struct {
	addr uint64
	size uint64
}

func (r sectionRange) end() uint64 { return r.addr + r.size }

// synthesizeSizes assigns a size to every defined, unsized symbol: the
// distance to the next higher address in the same section, or to the section
// end for the last one. Symbols sharing an address share the size. Symbols
// outside their section are left alone.
func synthesizeSizes(syms []Symbol, sections map[int]sectionRange) {
	todo := make([]int, 0, len(syms))
	for i := range syms {
		s := &syms[i]
		if !s.Defined {
			continue
		}
		sect, ok := sections[s.Section]
		if !ok || s.Value < sect.addr || s.Value >= sect.end() {
			continue
		}
		todo = append(todo, i)
	}

	slices.SortStableFunc(todo, func(a, b int) int {
		if c := cmp.Compare(syms[a].Section, syms[b].Section); c != 0 {
			return c
		}
		return cmp.Compare(syms[a].Value, syms[b].Value)
	})

	for len(todo) > 0 {
		first := syms[todo[0]]

		group := 1
		for group < len(todo) {
			next := syms[todo[group]]
			if next.Section != first.Section || next.Value != first.Value {
				break
			}
			group++
		}

		var size uint64
		if group < len(todo) && syms[todo[group]].Section == first.Section {
			size = syms[todo[group]].Value - first.Value
		} else {
			size = sections[first.Section].end() - first.Value
		}

		for _, i := range todo[:group] {
			if syms[i].Size == 0 {
				syms[i].Size = size
			}
		}
		todo = todo[group:]
	}
}
