package hufzip

import (
	"bytes"
	"container/heap"
	"fmt"
	"io"

	"github.com/chronos-tachyon/assert"
)

// NodeID addresses a node within a Tree.
type NodeID int32

// NoNode is returned by some methods to clearly indicate that no node is
// being returned.
const NoNode = NodeID(-1)

// Tree is a binary prefix tree built from a FrequencyTable.  Its nodes live in
// a single arena owned by the Tree and are released all at once by Release.
//
// Each node is either a leaf, which holds a symbol, or an internal node, whose
// symbol is InternalSymbol and whose weight is the sum of its children's
// weights.  The 0 bit selects the zero-child and the 1 bit the one-child.
//
type Tree struct {
	nodes []node
	root  NodeID
}

type node struct {
	symbol Symbol
	weight uint64
	child  [2]NodeID
}

// BuildTree constructs the prefix tree for a FrequencyTable.
//
// Leaves are created in ascending symbol order and pushed onto a min-heap
// keyed by (weight, creation order).  The two lightest nodes are popped
// repeatedly; the first popped becomes the zero-child and the second the
// one-child of a new internal node, which is pushed back.  Because creation
// order breaks every tie, the same table always yields the same tree.
//
// A table with a single entry yields an internal root whose zero-child is
// the lone leaf, so that the symbol receives the code "0".
//
// Returns ErrInvalidInput if the table is empty.
//
func BuildTree(ft FrequencyTable) (*Tree, error) {
	keys := ft.Keys()
	numLeaves := len(keys)
	if numLeaves == 0 {
		return nil, fmt.Errorf("%w: empty frequency table", ErrInvalidInput)
	}

	t := &Tree{
		nodes: make([]node, 0, 2*numLeaves),
		root:  NoNode,
	}

	h := weightHeap{list: make([]nodeAndWeight, 0, numLeaves)}
	for _, sym := range keys {
		id := t.newNode(sym, ft.Get(sym), NoNode, NoNode)
		h.list = append(h.list, nodeAndWeight{id, ft.Get(sym)})
	}
	h.Init()

	if numLeaves == 1 {
		leaf := heap.Pop(&h).(nodeAndWeight)
		t.root = t.newNode(InternalSymbol, leaf.weight, leaf.id, NoNode)
		return t, nil
	}

	for h.Len() > 1 {
		first := heap.Pop(&h).(nodeAndWeight)
		second := heap.Pop(&h).(nodeAndWeight)

		sum := first.weight + second.weight
		assert.Assertf(sum >= first.weight, "weight overflow: %d + %d", first.weight, second.weight)

		id := t.newNode(InternalSymbol, sum, first.id, second.id)
		heap.Push(&h, nodeAndWeight{id, sum})
	}

	t.root = heap.Pop(&h).(nodeAndWeight).id
	return t, nil
}

func (t *Tree) newNode(sym Symbol, weight uint64, zero NodeID, one NodeID) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{symbol: sym, weight: weight, child: [2]NodeID{zero, one}})
	return id
}

// Root returns the root of the tree, or NoNode if the tree was released.
func (t *Tree) Root() NodeID {
	return t.root
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// IsLeaf returns true iff the node is a leaf.
func (t *Tree) IsLeaf(id NodeID) bool {
	return t.at(id).symbol != InternalSymbol
}

// Symbol returns the node's symbol, which is InternalSymbol for internal
// nodes.
func (t *Tree) Symbol(id NodeID) Symbol {
	return t.at(id).symbol
}

// Weight returns the node's weight.
func (t *Tree) Weight(id NodeID) uint64 {
	return t.at(id).weight
}

// Child returns the zero-child (bit == 0) or one-child (bit != 0) of the
// node.  Returns NoNode if the node is a leaf, or if the child is absent.
func (t *Tree) Child(id NodeID, bit uint) NodeID {
	n := t.at(id)
	if bit != 0 {
		return n.child[1]
	}
	return n.child[0]
}

// Release drops every node of the tree.  The tree must not be used again,
// except that calling Release twice is harmless.
func (t *Tree) Release() {
	if t == nil {
		return
	}
	t.nodes = nil
	t.root = NoNode
}

func (t *Tree) at(id NodeID) *node {
	assert.Assertf(id >= 0 && int(id) < len(t.nodes), "node %d out of range [0, %d)", id, len(t.nodes))
	return &t.nodes[id]
}

// Check verifies the structural invariants of the tree: every internal
// node's weight is the sum of its children's weights, every leaf symbol is
// unique, and every node is reachable exactly once from the root.
func (t *Tree) Check() error {
	if t.root == NoNode {
		return fmt.Errorf("hufzip: tree has no root")
	}

	var seenSymbol [NumSymbols]bool
	seenNode := make([]bool, len(t.nodes))

	stack := make([]NodeID, 0, log2uint32(uint32(len(t.nodes)))+1)
	stack = append(stack, t.root)
	for len(stack) != 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if id < 0 || int(id) >= len(t.nodes) {
			return fmt.Errorf("hufzip: node %d out of range", id)
		}
		if seenNode[id] {
			return fmt.Errorf("hufzip: node %d reachable twice", id)
		}
		seenNode[id] = true

		n := t.nodes[id]
		if n.symbol != InternalSymbol {
			if !n.symbol.IsValid() {
				return fmt.Errorf("hufzip: leaf %d holds invalid symbol %v", id, n.symbol)
			}
			if seenSymbol[n.symbol] {
				return fmt.Errorf("hufzip: symbol %v appears in more than one leaf", n.symbol)
			}
			seenSymbol[n.symbol] = true
			continue
		}

		var sum uint64
		var numChildren int
		for _, child := range n.child {
			if child == NoNode {
				continue
			}
			if child < 0 || int(child) >= len(t.nodes) {
				return fmt.Errorf("hufzip: node %d has child %d out of range", id, child)
			}
			sum += t.nodes[child].weight
			numChildren++
			stack = append(stack, child)
		}
		if numChildren == 0 {
			return fmt.Errorf("hufzip: internal node %d has no children", id)
		}
		if sum != n.weight {
			return fmt.Errorf("hufzip: internal node %d has weight %d, children sum to %d", id, n.weight, sum)
		}
	}

	for id, seen := range seenNode {
		if !seen {
			return fmt.Errorf("hufzip: node %d unreachable from root", id)
		}
	}
	return nil
}

// Dump writes a programmer-readable debugging dump of the tree to the given
// writer, one node per line, indented by depth.
func (t *Tree) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Tree{\n")
	if t.root != NoNode {
		t.dumpNode(&buf, t.root, "", 1)
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

func (t *Tree) dumpNode(buf *bytes.Buffer, id NodeID, edge string, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteByte('\t')
	}
	buf.WriteString(edge)
	n := t.nodes[id]
	if n.symbol != InternalSymbol {
		fmt.Fprintf(buf, "Leaf(%v, %d)\n", n.symbol, n.weight)
		return
	}
	fmt.Fprintf(buf, "Internal(%d)\n", n.weight)
	if n.child[0] != NoNode {
		t.dumpNode(buf, n.child[0], "0: ", depth+1)
	}
	if n.child[1] != NoNode {
		t.dumpNode(buf, n.child[1], "1: ", depth+1)
	}
}

// type nodeAndWeight + type weightHeap {{{

type nodeAndWeight struct {
	id     NodeID
	weight uint64
}

type weightHeap struct {
	list []nodeAndWeight
}

func (h *weightHeap) Init() {
	heap.Init(h)
}

func (h *weightHeap) Len() int {
	return len(h.list)
}

func (h *weightHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

// Less orders by weight, then by creation order.  Node IDs are assigned in
// creation order, so the ID is the tie-break key.
func (h *weightHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.weight != b.weight {
		return a.weight < b.weight
	}
	return a.id < b.id
}

func (h *weightHeap) Push(x interface{}) {
	h.list = append(h.list, x.(nodeAndWeight))
}

func (h *weightHeap) Pop() interface{} {
	last := uint(len(h.list)) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*weightHeap)(nil)

// }}}
