package wordpiece

import (
	"unicode"
	"unicode/utf8"
)

// Range is a half-open byte range into the tokenized text.
type Range struct {
	Start int
	End   int
}

// Tokenize segments text into token ids and their source byte ranges.
//
// All output buffers are cleared first, retaining capacity, then refilled: a
// configured prefix token at the zero-width range 0..0, each whitespace
// delimited word's subword tokens, and a configured suffix token at a
// zero-width range after the last token. A word that cannot be fully
// decomposed yields exactly one [UNK] token spanning the whole word. If words
// is non-nil it receives, per word, the half-open index range its tokens
// occupy in ids.
//
// Tokenize never fails; empty or all-whitespace input yields only the
// configured prefix/suffix tokens. Concurrent calls on one Tokenizer are safe
// as long as they use distinct buffers.
func Tokenize[T ID](t *Tokenizer, text string, ids *[]T, ranges *[]Range, words *[]Range) {
	*ids = (*ids)[:0]
	*ranges = (*ranges)[:0]
	if words != nil {
		*words = (*words)[:0]
	}

	if t.prefixID >= 0 {
		*ids = append(*ids, T(t.prefixID))
		*ranges = append(*ranges, Range{})
	}

	wordMark := len(*ids)

	off := 0
	for off < len(text) {
		r, size := utf8.DecodeRuneInString(text[off:])
		if unicode.IsSpace(r) {
			off += size

			continue
		}

		end := off + size
		for end < len(text) {
			r, size = utf8.DecodeRuneInString(text[end:])
			if unicode.IsSpace(r) {
				break
			}

			end += size
		}

		tokenizeWord(t, text, off, end, ids, ranges)

		if words != nil {
			*words = append(*words, Range{Start: wordMark, End: len(*ids)})
			wordMark = len(*ids)
		}

		off = end
	}

	if t.suffixID >= 0 {
		pos := 0
		if n := len(*ranges); n > 0 {
			pos = (*ranges)[n-1].End
		}

		*ids = append(*ids, T(t.suffixID))
		*ranges = append(*ranges, Range{Start: pos, End: pos})
	}
}

// tokenizeWord appends the greedy longest-match decomposition of
// text[start:end]. If any suffix of the word stays unmatched, everything
// appended for this word is discarded and replaced by a single [UNK] pair
// spanning the original word.
func tokenizeWord[T ID](t *Tokenizer, text string, start, end int, ids *[]T, ranges *[]Range) {
	mark := len(*ids)
	cursor := start

	if n, id, ok := t.starters.LongestPrefix(text[start:end]); ok {
		cursor = start + n
		*ids = append(*ids, T(id))
		*ranges = append(*ranges, Range{Start: start, End: cursor})

		for cursor < end {
			n, id, ok = t.followers.LongestPrefix(text[cursor:end])
			if !ok {
				break
			}

			next := cursor + n
			*ids = append(*ids, T(id))
			*ranges = append(*ranges, Range{Start: cursor, End: next})
			cursor = next
		}
	}

	if cursor < end {
		*ids = append((*ids)[:mark], T(t.unkID))
		*ranges = append((*ranges)[:mark], Range{Start: start, End: end})
	}
}
