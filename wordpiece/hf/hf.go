// Package hf adapts the wordpiece engine to the plugin contract of
// huggingface-style tokenization hosts: segmentation over pre-split words with
// absolute offsets, id/text lookups, vocabulary size and save-to-folder. The
// host performs pre-tokenization; this adapter only segments.
package hf

import (
	"path/filepath"

	"github.com/example/go-wordpiece/wordpiece"
)

// Word is one pre-split input word with its absolute byte offsets in the
// source text.
type Word struct {
	Text  string
	Start int
	End   int
}

// Token is one emitted subword. Text renders continuation subwords with the
// "##" marker, Start/End are absolute source offsets, and Word is the index of
// the owning input word.
type Token struct {
	ID    uint64
	Text  string
	Start int
	End   int
	Word  int
}

// Model exposes a Tokenizer through the host plugin contract.
type Model struct {
	tok *wordpiece.Tokenizer
}

// New wraps an already-loaded tokenizer.
func New(t *wordpiece.Tokenizer) *Model {
	return &Model{tok: t}
}

// Tokenize segments every word into subword tokens. A word that cannot be
// fully decomposed collapses to a single [UNK] token spanning the whole word.
func (m *Model) Tokenize(words []Word) []Token {
	// At least one token per word.
	out := make([]Token, 0, len(words))

	for wi, w := range words {
		mark := len(out)
		cursor := 0

		if n, id, ok := m.tok.MatchStarter(w.Text); ok {
			out = append(out, Token{
				ID:    id,
				Text:  w.Text[:n],
				Start: w.Start,
				End:   w.Start + n,
				Word:  wi,
			})
			cursor = n

			for cursor < len(w.Text) {
				n, id, ok = m.tok.MatchFollower(w.Text[cursor:])
				if !ok {
					break
				}

				out = append(out, Token{
					ID:    id,
					Text:  wordpiece.ContinuationMarker + w.Text[cursor:cursor+n],
					Start: w.Start + cursor,
					End:   w.Start + cursor + n,
					Word:  wi,
				})
				cursor += n
			}
		}

		if cursor < len(w.Text) {
			out = append(out[:mark], Token{
				ID:    m.tok.UnkID(),
				Text:  wordpiece.UnkToken,
				Start: w.Start,
				End:   w.End,
				Word:  wi,
			})
		}
	}

	return out
}

// TokenToID resolves a token's id, honoring the continuation marker.
func (m *Model) TokenToID(token string) (uint64, bool) {
	return m.tok.IDOf(token)
}

// IDToToken returns the canonical text of an id.
func (m *Model) IDToToken(id uint64) (string, bool) {
	if id >= uint64(m.tok.Len()) {
		return "", false
	}

	return wordpiece.TextOf(m.tok, id), true
}

// VocabSize returns the vocabulary size.
func (m *Model) VocabSize() int {
	return m.tok.Len()
}

// Save writes the vocabulary into folder as vocab.txt, or name-vocab.txt when
// name is non-empty, and returns the written path.
func (m *Model) Save(folder, name string) (string, error) {
	file := "vocab.txt"
	if name != "" {
		file = name + "-vocab.txt"
	}

	path := filepath.Join(folder, file)
	if err := m.tok.SaveVocab(path); err != nil {
		return "", err
	}

	return path, nil
}
