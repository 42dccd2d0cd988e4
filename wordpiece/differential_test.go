package wordpiece

import (
	"math/rand"
	"strings"
	"testing"
)

// referenceVocab is the hash-based lookup the reference word-piece algorithm
// works on: canonical token text (continuation marker included) to id.
func referenceVocab(lines []string) map[string]uint64 {
	m := make(map[string]uint64, len(lines))
	for i, tok := range lines {
		if strings.HasPrefix(tok, UnusedPrefix) {
			continue
		}

		m[tok] = uint64(i)
	}

	return m
}

// referenceWord is the reference greedy word-piece decomposition of one word:
// at each position take the longest substring that, with the continuation
// marker for non-initial positions, is in the vocabulary; any failure makes
// the whole word a single [UNK].
func referenceWord(vocab map[string]uint64, unk uint64, word string) []uint64 {
	var out []uint64

	start := 0
	for start < len(word) {
		end := len(word)
		found := false
		var match uint64

		for end > start {
			sub := word[start:end]
			if start > 0 {
				sub = ContinuationMarker + sub
			}

			if id, ok := vocab[sub]; ok {
				match = id
				found = true

				break
			}

			end--
		}

		if !found {
			return []uint64{unk}
		}

		out = append(out, match)
		start = end
	}

	return out
}

// referenceTokenize runs the reference algorithm over whitespace-split text.
func referenceTokenize(vocab map[string]uint64, unk uint64, text string) []uint64 {
	var out []uint64
	for _, word := range strings.Fields(text) {
		out = append(out, referenceWord(vocab, unk, word)...)
	}

	return out
}

// differentialLines is a vocabulary without [CLS]/[SEP] so the engine output
// is directly comparable to the per-word reference concatenation.
var differentialLines = []string{
	"[PAD]", "[UNK]", "[unused0]",
	"der", "die", "das", "ein", "im", "und",
	"Hund", "Garten", "Kind", "Ball", "Haus", "Beispiel", "Spiel",
	"inter", "essant", "Bund", "es", "regierung",
	"##e", "##en", "##es", "##s", "##n", "##t", "##er",
	"##essant", "##garten", "##spiel", "##regierung", "##beispiel",
	"a", "b", "c", "##a", "##b", "##c",
}

var differentialPieces = []string{
	"der", "die", "das", "ein", "im", "und", "Hund", "Garten", "Kind",
	"Ball", "Haus", "Beispiel", "Spiel", "inter", "essant", "Bund",
	"es", "regierung", "e", "en", "s", "n", "t", "er", "garten",
	"spiel", "a", "b", "c", "x", "q", "zz",
}

// skipDifferential mirrors the reference algorithm's blind spots: words
// carrying the continuation or unused-slot markers in their text, and words of
// 100 or more characters.
func skipDifferential(s string) bool {
	if strings.Contains(s, ContinuationMarker) || strings.Contains(s, UnusedPrefix) {
		return true
	}

	for _, word := range strings.Fields(s) {
		if len([]rune(word)) >= 100 {
			return true
		}
	}

	return false
}

func TestDifferentialEquivalence(t *testing.T) {
	tok := loadLines(t, differentialLines...)
	vocab := referenceVocab(differentialLines)

	rng := rand.New(rand.NewSource(42))
	delims := []string{" ", "  ", "\t", "\n", " \t "}

	for round := 0; round < 2000; round++ {
		var sb strings.Builder
		numWords := 1 + rng.Intn(6)
		for w := 0; w < numWords; w++ {
			if w > 0 {
				sb.WriteString(delims[rng.Intn(len(delims))])
			}

			numPieces := 1 + rng.Intn(4)
			for p := 0; p < numPieces; p++ {
				sb.WriteString(differentialPieces[rng.Intn(len(differentialPieces))])
			}
		}

		text := sb.String()
		if skipDifferential(text) {
			continue
		}

		var ids []uint64
		var ranges []Range
		Tokenize(tok, text, &ids, &ranges, nil)

		want := referenceTokenize(vocab, tok.UnkID(), text)

		if !equalIDs(ids, want) {
			t.Fatalf("divergence on %q:\n engine    = %v\n reference = %v", text, ids, want)
		}
	}
}

func FuzzTokenize(f *testing.F) {
	tok, err := FromReader(strings.NewReader(strings.Join(differentialLines, "\n")))
	if err != nil {
		f.Fatalf("FromReader: %v", err)
	}

	vocab := referenceVocab(differentialLines)

	f.Add("Ein Hund im Garten")
	f.Add("derHundes Ballspiele")
	f.Add("   ")
	f.Add("interessantes Beispiel")
	f.Add("Bundesregierung")

	f.Fuzz(func(t *testing.T, text string) {
		if skipDifferential(text) {
			t.Skip()
		}

		var ids []uint64
		var ranges []Range
		Tokenize(tok, text, &ids, &ranges, nil)

		if len(ids) != len(ranges) {
			t.Fatalf("len(ids)=%d len(ranges)=%d", len(ids), len(ranges))
		}

		want := referenceTokenize(vocab, tok.UnkID(), text)
		if !equalIDs(ids, want) {
			t.Fatalf("divergence on %q:\n engine    = %v\n reference = %v", text, ids, want)
		}
	})
}
