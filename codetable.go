package hufzip

import (
	"bytes"
	"fmt"
	"io"
	"sort"
)

// CodeTable maps each leaf symbol of a Tree to its root-to-leaf path.
type CodeTable struct {
	codes   map[Symbol]Code
	minSize uint16
	maxSize uint16
}

// GenerateCodeTable walks the tree depth-first and records, for each leaf, the
// bits of the branches taken to reach it (0 for the zero-child, 1 for the
// one-child).
func GenerateCodeTable(t *Tree) CodeTable {
	ct := CodeTable{codes: make(map[Symbol]Code, (t.Len()+1)/2)}
	if t.Root() == NoNode {
		return ct
	}

	// stackItem.x tracks where we are in the walk of stackItem.id:
	//   x=0 → We just arrived at this node for the first time
	//   x=1 → We have already processed the zero-child
	//   x=2 → We have already processed both children

	type stackItem struct {
		id   NodeID
		code Code
		x    byte
	}

	stack := make([]stackItem, 0, log2uint32(uint32(t.Len()))+1)
	var hasMinMax bool

	processChild := func(child NodeID, code Code) {
		if child == NoNode {
			return
		}
		if !t.IsLeaf(child) {
			stack = append(stack, stackItem{id: child, code: code})
			return
		}

		ct.codes[t.Symbol(child)] = code
		size := code.Size
		if !hasMinMax {
			hasMinMax = true
			ct.minSize = size
			ct.maxSize = size
		} else if ct.minSize > size {
			ct.minSize = size
		} else if ct.maxSize < size {
			ct.maxSize = size
		}
	}

	stack = append(stack, stackItem{id: t.Root()})
	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		x := top.x
		top.x++
		switch x {
		case 0:
			processChild(t.Child(top.id, 0), top.code.Append(0))
		case 1:
			processChild(t.Child(top.id, 1), top.code.Append(1))
		case 2:
			stack = stack[:len(stack)-1]
		}
	}
	return ct
}

// Lookup returns the code for the symbol.
func (ct CodeTable) Lookup(sym Symbol) (Code, bool) {
	hc, found := ct.codes[sym]
	return hc, found
}

// Len returns the number of symbols in the table.
func (ct CodeTable) Len() int {
	return len(ct.codes)
}

// MinSize is the bit length of the shortest code.
func (ct CodeTable) MinSize() uint16 {
	return ct.minSize
}

// MaxSize is the bit length of the longest code.
func (ct CodeTable) MaxSize() uint16 {
	return ct.maxSize
}

// Symbols returns every symbol in the table, in ascending order.
func (ct CodeTable) Symbols() []Symbol {
	out := make([]Symbol, 0, len(ct.codes))
	for sym := range ct.codes {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal returns true iff both tables map the same symbols to the same codes.
func (ct CodeTable) Equal(other CodeTable) bool {
	if len(ct.codes) != len(other.codes) {
		return false
	}
	for sym, hc := range ct.codes {
		if otherHC, found := other.codes[sym]; !found || otherHC != hc {
			return false
		}
	}
	return true
}

// IsPrefixFree returns true iff no code in the table is a prefix of another,
// and no code is empty.
func (ct CodeTable) IsPrefixFree() bool {
	symbols := ct.Symbols()
	for i, a := range symbols {
		hcA := ct.codes[a]
		if hcA.Size == 0 {
			return false
		}
		for _, b := range symbols[i+1:] {
			hcB := ct.codes[b]
			if hcA.HasPrefix(hcB) || hcB.HasPrefix(hcA) {
				return false
			}
		}
	}
	return true
}

// EncodedSize returns the number of payload bits needed to encode data
// described by the FrequencyTable with this code.  Returns ErrProtocol if a
// symbol of the table has no code.
func (ct CodeTable) EncodedSize(ft FrequencyTable) (uint64, error) {
	var total uint64
	for _, sym := range ft.Keys() {
		hc, found := ct.codes[sym]
		if !found {
			return 0, fmt.Errorf("%w: %v", ErrProtocol, sym)
		}
		total += uint64(hc.Size) * ft.Get(sym)
	}
	return total, nil
}

// Dump writes a programmer-readable debugging dump of the CodeTable's current
// state to the given writer.
func (ct CodeTable) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeTable{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", ct.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", ct.maxSize)
	for _, sym := range ct.Symbols() {
		fmt.Fprintf(&buf, "\tLookup(%v) = %s\n", sym, ct.codes[sym])
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}
