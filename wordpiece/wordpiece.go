// Package wordpiece segments free text into vocabulary token IDs and their
// originating byte ranges, reproducing the greedy word-piece algorithm used by
// BERT-style models on top of longest-prefix automata.
//
// A Tokenizer is built once from a newline-separated vocabulary file and is
// immutable afterwards, so one instance can be shared across goroutines.
// Output buffers are owned by the caller, cleared and refilled on every call,
// and may be reused to keep the hot path free of allocations:
//
//	tok, err := wordpiece.FromVocab("vocab.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var ids []int64
//	var ranges []wordpiece.Range
//	wordpiece.Tokenize(tok, "Ein interessantes Beispiel", &ids, &ranges, nil)
//	for i, id := range ids {
//	    r := ranges[i]
//	    _ = wordpiece.TextOf(tok, id)
//	    _ = wordpiece.IsSpecial(tok, id)
//	    _ = r
//	}
package wordpiece

import (
	"strings"

	"github.com/example/go-wordpiece/fsa"
)

// Reserved vocabulary literals. Matching against them is exact so the load
// behavior stays auditable.
const (
	// ContinuationMarker prefixes subwords that attach to a preceding one.
	ContinuationMarker = "##"

	// UnusedPrefix marks vocabulary slots that reserve an id without
	// participating in matching or special-token membership.
	UnusedPrefix = "[unused"

	// UnkToken is the fallback for words that cannot be fully segmented.
	// A vocabulary without it fails to load.
	UnkToken = "[UNK]"

	// ClsToken, when present, is emitted as a zero-width prefix token.
	ClsToken = "[CLS]"

	// SepToken, when present, is emitted as a zero-width suffix token.
	SepToken = "[SEP]"
)

// Tokenizer holds the vocabulary table and the two automata derived from it:
// starters for first-subword entries and followers for continuation entries
// stored with their marker stripped. All fields are read-only after
// construction.
type Tokenizer struct {
	tokens    []string
	starters  *fsa.Machine
	followers *fsa.Machine
	specials  map[uint64]struct{}
	unkID     uint64
	prefixID  int // -1 when the vocabulary has no [CLS]
	suffixID  int // -1 when the vocabulary has no [SEP]
}

// Len returns the vocabulary size.
func (t *Tokenizer) Len() int {
	return len(t.tokens)
}

// UnkID returns the id of the [UNK] token.
func (t *Tokenizer) UnkID() uint64 {
	return t.unkID
}

// PrefixID returns the id of the [CLS] token, if the vocabulary has one.
func (t *Tokenizer) PrefixID() (uint64, bool) {
	if t.prefixID < 0 {
		return 0, false
	}

	return uint64(t.prefixID), true
}

// SuffixID returns the id of the [SEP] token, if the vocabulary has one.
func (t *Tokenizer) SuffixID() (uint64, bool) {
	if t.suffixID < 0 {
		return 0, false
	}

	return uint64(t.suffixID), true
}

// IDOf looks a token's id up through the automata. Tokens carrying the
// continuation marker are resolved against the followers automaton with the
// marker stripped.
func (t *Tokenizer) IDOf(token string) (uint64, bool) {
	if rest, ok := strings.CutPrefix(token, ContinuationMarker); ok {
		return t.followers.Get(rest)
	}

	return t.starters.Get(token)
}

// MatchStarter returns the longest prefix of word that is a first-subword
// vocabulary entry, as (byte length, id).
func (t *Tokenizer) MatchStarter(word string) (n int, id uint64, ok bool) {
	return t.starters.LongestPrefix(word)
}

// MatchFollower returns the longest prefix of word that is a continuation
// vocabulary entry, as (byte length, id). The marker is not part of the match.
func (t *Tokenizer) MatchFollower(word string) (n int, id uint64, ok bool) {
	return t.followers.LongestPrefix(word)
}

// TextOf returns the canonical text of a token id, continuation marker
// included.
func TextOf[T ID](t *Tokenizer, id T) string {
	return t.tokens[uint64(id)]
}

// TextsOf returns the canonical texts of the given token ids.
func TextsOf[T ID](t *Tokenizer, ids []T) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = TextOf(t, id)
	}

	return out
}

// IsSpecial reports whether the id belongs to a bracket-delimited vocabulary
// entry. Special membership is independent of the structural [CLS]/[SEP]/[UNK]
// roles: a bracketed token without a role is still special.
func IsSpecial[T ID](t *Tokenizer, id T) bool {
	_, ok := t.specials[uint64(id)]

	return ok
}
