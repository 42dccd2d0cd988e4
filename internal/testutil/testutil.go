// Package testutil provides shared vocabulary fixtures for tests.
//
// Typical usage:
//
//	func TestSomething(t *testing.T) {
//	    path := testutil.WriteVocab(t, testutil.BaseVocab("Hund", "##chen"))
//	    tok, err := wordpiece.FromVocab(path)
//	    ...
//	}
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteVocab writes one token per line into a temp file owned by the test and
// returns its path.
func WriteVocab(tb testing.TB, tokens []string) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "vocab.txt")

	err := os.WriteFile(path, []byte(strings.Join(tokens, "\n")+"\n"), 0o600)
	if err != nil {
		tb.Fatalf("write vocab fixture: %v", err)
	}

	return path
}

// BaseVocab returns a small vocabulary with the conventional layout
// ([PAD]=0, two unused slots, [CLS]=3, [SEP]=4, [UNK]=5, [MASK]=6) followed by
// the given entries.
func BaseVocab(entries ...string) []string {
	base := []string{"[PAD]", "[unused0]", "[unused1]", "[CLS]", "[SEP]", "[UNK]", "[MASK]"}

	return append(base, entries...)
}

// SyntheticVocab returns a vocabulary of the given size where every slot not
// named in assign is filled with a unique non-special filler token.
func SyntheticVocab(size int, assign map[int]string) []string {
	tokens := make([]string, size)
	for i := range tokens {
		if tok, ok := assign[i]; ok {
			tokens[i] = tok
		} else {
			tokens[i] = fmt.Sprintf("filler%06d", i)
		}
	}

	return tokens
}
