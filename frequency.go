package hufzip

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/chronos-tachyon/assert"
)

// FrequencyTable maps each Symbol to its number of occurrences.  Every count
// held in the table is positive.  The zero value is an empty table ready for
// use.
type FrequencyTable struct {
	counts map[Symbol]uint64
}

// NewFrequencyTable returns an empty FrequencyTable.
func NewFrequencyTable() FrequencyTable {
	return FrequencyTable{counts: make(map[Symbol]uint64, NumSymbols)}
}

// Len returns the number of distinct symbols in the table.
func (ft FrequencyTable) Len() int {
	return len(ft.counts)
}

// Contains returns true iff the symbol has an entry.
func (ft FrequencyTable) Contains(sym Symbol) bool {
	_, found := ft.counts[sym]
	return found
}

// Get returns the count for the symbol, or 0 if there is no entry.
func (ft FrequencyTable) Get(sym Symbol) uint64 {
	return ft.counts[sym]
}

// Put sets the count for the symbol.  A count of 0 removes the entry.
func (ft *FrequencyTable) Put(sym Symbol, count uint64) {
	assert.Assertf(sym.IsValid(), "symbol %d is not valid in a frequency table", int32(sym))
	if count == 0 {
		delete(ft.counts, sym)
		return
	}
	if ft.counts == nil {
		ft.counts = make(map[Symbol]uint64, NumSymbols)
	}
	ft.counts[sym] = count
}

// Add increments the count for the symbol by n.
func (ft *FrequencyTable) Add(sym Symbol, n uint64) {
	if n == 0 {
		return
	}
	old := ft.Get(sym)
	sum := old + n
	assert.Assertf(sum >= old, "count overflow for symbol %v", sym)
	ft.Put(sym, sum)
}

// Keys returns every symbol in the table, in ascending order.
func (ft FrequencyTable) Keys() []Symbol {
	keys := make([]Symbol, 0, len(ft.counts))
	for sym := range ft.counts {
		keys = append(keys, sym)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Total returns the sum of all counts.
func (ft FrequencyTable) Total() uint64 {
	var total uint64
	for _, count := range ft.counts {
		total += count
	}
	return total
}

// Merge adds every count in other to this table.
func (ft *FrequencyTable) Merge(other FrequencyTable) {
	for sym, count := range other.counts {
		ft.Add(sym, count)
	}
}

// Clone returns a deep copy of the table.
func (ft FrequencyTable) Clone() FrequencyTable {
	out := NewFrequencyTable()
	for sym, count := range ft.counts {
		out.counts[sym] = count
	}
	return out
}

// Equal returns true iff both tables hold exactly the same entries.
func (ft FrequencyTable) Equal(other FrequencyTable) bool {
	if len(ft.counts) != len(other.counts) {
		return false
	}
	for sym, count := range ft.counts {
		if otherCount, found := other.counts[sym]; !found || otherCount != count {
			return false
		}
	}
	return true
}

// Dump writes a programmer-readable debugging dump of the table to the given
// writer.
func (ft FrequencyTable) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("FrequencyTable{\n")
	for _, sym := range ft.Keys() {
		fmt.Fprintf(&buf, "\t%v = %d\n", sym, ft.counts[sym])
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// Analyze counts every byte read from r.  When appendEOF is true, a single
// EOF entry with count 1 is added, even if r is empty.
//
// Errors other than io.EOF from r are reported as ErrInvalidInput.
//
func Analyze(r io.Reader, appendEOF bool) (FrequencyTable, error) {
	var hist histogram
	buf := make([]byte, 32<<10)
	for {
		n, err := r.Read(buf)
		hist.count(buf[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			return FrequencyTable{}, fmt.Errorf("%w: reading source: %w", ErrInvalidInput, err)
		}
	}
	return hist.table(appendEOF), nil
}

// AnalyzeBytes counts every byte in data.  The data is split into chunks of
// chunkSize bytes that are counted by up to workers goroutines, and the
// partial counts are merged into one table before it is returned, so the
// result does not depend on the number of workers.
//
func AnalyzeBytes(data []byte, appendEOF bool, workers int, chunkSize int) FrequencyTable {
	if workers < 1 {
		workers = 1
	}
	if chunkSize < 1 {
		chunkSize = len(data)
	}
	if workers == 1 || len(data) <= chunkSize {
		var hist histogram
		hist.count(data)
		return hist.table(appendEOF)
	}

	chunks := make(chan []byte)
	partials := make([]histogram, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(hist *histogram) {
			defer wg.Done()
			for chunk := range chunks {
				hist.count(chunk)
			}
		}(&partials[i])
	}
	for start := 0; start < len(data); start += chunkSize {
		end := start + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunks <- data[start:end]
	}
	close(chunks)
	wg.Wait()

	var merged histogram
	for i := range partials {
		merged.merge(&partials[i])
	}
	return merged.table(appendEOF)
}

// histogram is the dense form of a FrequencyTable used while counting.
type histogram [256]uint64

func (h *histogram) count(p []byte) {
	for _, b := range p {
		h[b]++
	}
}

func (h *histogram) merge(other *histogram) {
	for i := range h {
		h[i] += other[i]
	}
}

func (h *histogram) table(appendEOF bool) FrequencyTable {
	ft := NewFrequencyTable()
	for i, count := range h {
		if count != 0 {
			ft.counts[Symbol(i)] = count
		}
	}
	if appendEOF {
		ft.counts[EOF] = 1
	}
	return ft
}
