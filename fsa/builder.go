// Package fsa builds and walks frozen acyclic finite-state automata that map
// byte-string keys to 64-bit payloads.
//
// A Machine is constructed once from keys inserted in strictly increasing byte
// order and is immutable afterwards, so it can be shared across goroutines
// without synchronization. The walk primitives never allocate, which makes the
// package suitable for per-byte hot paths such as subword matching.
package fsa

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrOutOfOrder is returned when a key is inserted before a key that sorts
// after it.
var ErrOutOfOrder = errors.New("keys must be inserted in ascending order")

// ErrDuplicateKey is returned when the same key is inserted twice.
var ErrDuplicateKey = errors.New("duplicate key")

// Builder assembles a Machine from sorted keys using the incremental
// construction for sorted input: the path for each new key is added as plain
// trie nodes, and whenever the shared prefix with the next key shortens, the
// now-complete suffix states are folded into a registry of equivalent states.
type Builder struct {
	root      *buildNode
	unchecked []uncheckedEdge
	registry  map[string]*buildNode
	nextID    int32
	lastKey   string
	hasLast   bool
	numKeys   int
	sigBuf    []byte
}

type buildNode struct {
	id      int32 // -1 until registered
	final   bool
	payload uint64
	edges   []buildEdge
}

type buildEdge struct {
	label  byte
	target *buildNode
}

type uncheckedEdge struct {
	parent *buildNode
	child  *buildNode
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		root:     &buildNode{id: -1},
		registry: make(map[string]*buildNode),
	}
}

// Insert adds a key with its payload. Keys must arrive in strictly increasing
// byte order; violations return ErrOutOfOrder or ErrDuplicateKey.
func (b *Builder) Insert(key string, val uint64) error {
	if b.hasLast {
		switch {
		case key == b.lastKey:
			return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		case key < b.lastKey:
			return fmt.Errorf("%w: %q after %q", ErrOutOfOrder, key, b.lastKey)
		}
	}

	prefix := commonPrefixLen(key, b.lastKey)
	b.fold(prefix)

	node := b.root
	if prefix > 0 {
		node = b.unchecked[prefix-1].child
	}

	for i := prefix; i < len(key); i++ {
		next := &buildNode{id: -1}
		node.edges = append(node.edges, buildEdge{label: key[i], target: next})
		b.unchecked = append(b.unchecked, uncheckedEdge{parent: node, child: next})
		node = next
	}

	node.final = true
	node.payload = val
	b.lastKey = key
	b.hasLast = true
	b.numKeys++

	return nil
}

// Finish folds the remaining path and freezes the automaton into its compact
// array form. The Builder must not be used afterwards.
func (b *Builder) Finish() *Machine {
	b.fold(0)

	return freeze(b.root, b.numKeys)
}

// fold registers or replaces every unchecked state deeper than depth, deepest
// first, so equivalent suffixes share one state.
func (b *Builder) fold(depth int) {
	for i := len(b.unchecked) - 1; i >= depth; i-- {
		e := b.unchecked[i]
		sig := b.signature(e.child)

		if existing, ok := b.registry[sig]; ok {
			e.parent.edges[len(e.parent.edges)-1].target = existing
		} else {
			e.child.id = b.nextID
			b.nextID++
			b.registry[sig] = e.child
		}
	}

	b.unchecked = b.unchecked[:min(depth, len(b.unchecked))]
}

// signature encodes finality, payload and outgoing edges. All edge targets are
// already registered when a node is folded, so their ids are stable.
func (b *Builder) signature(n *buildNode) string {
	buf := b.sigBuf[:0]
	if n.final {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}

	buf = binary.LittleEndian.AppendUint64(buf, n.payload)
	for _, e := range n.edges {
		buf = append(buf, e.label)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(e.target.id))
	}

	b.sigBuf = buf

	return string(buf)
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}

	return i
}

func freeze(root *buildNode, numKeys int) *Machine {
	index := make(map[*buildNode]int32)
	var order []*buildNode

	var visit func(n *buildNode)
	visit = func(n *buildNode) {
		if _, seen := index[n]; seen {
			return
		}

		index[n] = int32(len(order))
		order = append(order, n)
		for _, e := range n.edges {
			visit(e.target)
		}
	}
	visit(root)

	m := &Machine{
		states:  make([]state, len(order)),
		numKeys: numKeys,
	}
	for i, n := range order {
		lo := int32(len(m.trans))
		for _, e := range n.edges {
			m.trans = append(m.trans, transition{label: e.label, target: index[e.target]})
		}

		m.states[i] = state{
			transLo: lo,
			transHi: int32(len(m.trans)),
			final:   n.final,
			payload: n.payload,
		}
	}

	return m
}
