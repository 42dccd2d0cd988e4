package fsa

// Machine is a frozen deterministic acyclic automaton. State 0 is the start
// state; transitions of one state are contiguous and sorted by label.
type Machine struct {
	states  []state
	trans   []transition
	numKeys int
}

type state struct {
	transLo int32
	transHi int32
	final   bool
	payload uint64
}

type transition struct {
	label  byte
	target int32
}

// LongestPrefix walks input byte by byte from the start state and returns the
// length and payload of the longest prefix that is a complete key. Every time
// an accepting state is reached the current position overwrites the previous
// best, so the result is the longest stored key, not the longest traversable
// path. The walk stops at the first byte with no outgoing transition.
func (m *Machine) LongestPrefix(input string) (n int, val uint64, ok bool) {
	s := int32(0)
	for i := 0; i < len(input); i++ {
		next, found := m.step(s, input[i])
		if !found {
			return n, val, ok
		}

		s = next
		if st := &m.states[s]; st.final {
			n, val, ok = i+1, st.payload, true
		}
	}

	return n, val, ok
}

// Get returns the payload stored for an exact key.
func (m *Machine) Get(key string) (uint64, bool) {
	s := int32(0)
	for i := 0; i < len(key); i++ {
		next, found := m.step(s, key[i])
		if !found {
			return 0, false
		}

		s = next
	}

	st := &m.states[s]

	return st.payload, st.final
}

// Len returns the number of keys the Machine was built from.
func (m *Machine) Len() int {
	return m.numKeys
}

// NumStates returns the number of states, including the start state.
func (m *Machine) NumStates() int {
	return len(m.states)
}

func (m *Machine) step(s int32, b byte) (int32, bool) {
	st := &m.states[s]
	for i := st.transLo; i < st.transHi; i++ {
		t := m.trans[i]
		if t.label == b {
			return t.target, true
		}

		if t.label > b {
			break
		}
	}

	return 0, false
}
