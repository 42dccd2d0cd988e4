package wordpiece

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/example/go-wordpiece/fsa"
)

// ErrMissingUnk is returned when the vocabulary has no [UNK] entry.
var ErrMissingUnk = errors.New("vocabulary has no " + UnkToken + " token")

type vocabEntry struct {
	key string
	id  uint64
}

// FromVocab loads a tokenizer from a newline-separated vocabulary file. Each
// line's position is its token id; a trailing newline is optional.
func FromVocab(path string) (*Tokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer func() { _ = f.Close() }()

	t, err := FromReader(f)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary %q: %w", path, err)
	}

	return t, nil
}

// FromReader loads a tokenizer from newline-separated vocabulary text.
func FromReader(r io.Reader) (*Tokenizer, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	return fromTokens(tokens)
}

// fromTokens classifies every vocabulary entry and builds both automata.
// Failure leaves no partial instance behind.
func fromTokens(tokens []string) (*Tokenizer, error) {
	starters := make([]vocabEntry, 0, len(tokens))
	followers := make([]vocabEntry, 0, len(tokens)/2)
	specials := make(map[uint64]struct{})
	unkID, prefixID, suffixID := -1, -1, -1

	for i, tok := range tokens {
		id := uint64(i)

		if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
			if strings.HasPrefix(tok, UnusedPrefix) {
				continue
			}

			switch tok {
			case UnkToken:
				unkID = i
			case ClsToken:
				prefixID = i
			case SepToken:
				suffixID = i
			}

			specials[id] = struct{}{}
		}

		if rest, isFollower := strings.CutPrefix(tok, ContinuationMarker); isFollower {
			followers = append(followers, vocabEntry{key: rest, id: id})
		} else {
			starters = append(starters, vocabEntry{key: tok, id: id})
		}
	}

	if unkID < 0 {
		return nil, ErrMissingUnk
	}

	startersMachine, err := buildMachine(starters)
	if err != nil {
		return nil, fmt.Errorf("build starters automaton: %w", err)
	}

	followersMachine, err := buildMachine(followers)
	if err != nil {
		return nil, fmt.Errorf("build followers automaton: %w", err)
	}

	return &Tokenizer{
		tokens:    tokens,
		starters:  startersMachine,
		followers: followersMachine,
		specials:  specials,
		unkID:     uint64(unkID),
		prefixID:  prefixID,
		suffixID:  suffixID,
	}, nil
}

// buildMachine sorts the entries and feeds them to the automaton builder.
// A duplicate vocabulary entry survives sorting and surfaces as a load error.
func buildMachine(entries []vocabEntry) (*fsa.Machine, error) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	b := fsa.NewBuilder()
	for _, e := range entries {
		if err := b.Insert(e.key, e.id); err != nil {
			return nil, err
		}
	}

	return b.Finish(), nil
}

// SaveVocab writes the vocabulary table back, one token per line in original
// order. The automata are not persisted; they are rebuilt on the next load.
func (t *Tokenizer) SaveVocab(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vocabulary: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, tok := range t.tokens {
		if _, err = w.WriteString(tok); err != nil {
			break
		}

		if err = w.WriteByte('\n'); err != nil {
			break
		}
	}

	if err == nil {
		err = w.Flush()
	}

	if err != nil {
		_ = f.Close()

		return fmt.Errorf("write vocabulary %q: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close vocabulary %q: %w", path, err)
	}

	return nil
}
