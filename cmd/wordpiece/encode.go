package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/go-wordpiece/internal/config"
	"github.com/example/go-wordpiece/wordpiece"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var text string
	var file string

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Tokenize text into vocabulary token ids",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			input, err := readEncodeText(text, file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			tok, err := wordpiece.FromVocab(cfg.Vocab.Path)
			if err != nil {
				return err
			}

			slog.Debug("vocabulary loaded", "path", cfg.Vocab.Path, "tokens", tok.Len())

			return encodeInto(cmd.OutOrStdout(), tok, input, cfg.Output)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to tokenize (reads stdin when neither --text nor --file is given)")
	cmd.Flags().StringVar(&file, "file", "", "Read text from this file")

	return cmd
}

// readEncodeText resolves the input text from the flag, a file, or stdin.
func readEncodeText(text, file string, stdin io.Reader) (string, error) {
	switch {
	case text != "" && file != "":
		return "", fmt.Errorf("--text and --file are mutually exclusive")
	case text != "":
		return text, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}

		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}

		return string(data), nil
	}
}

// encodeInto dispatches on the configured numeric representation.
func encodeInto(w io.Writer, tok *wordpiece.Tokenizer, text string, out config.OutputConfig) error {
	switch strings.ToLower(out.IDType) {
	case "u64":
		return encodeAs[uint64](w, tok, text, out)
	case "", "i64":
		return encodeAs[int64](w, tok, text, out)
	case "i32":
		return encodeAs[int32](w, tok, text, out)
	case "f64":
		return encodeAs[float64](w, tok, text, out)
	default:
		return fmt.Errorf("unknown id type %q (want u64, i64, i32 or f64)", out.IDType)
	}
}

type encodedToken[T wordpiece.ID] struct {
	ID        T      `json:"id"`
	Text      string `json:"text"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Attention T      `json:"attention"`
}

type encodeResult[T wordpiece.ID] struct {
	IDs    []T               `json:"ids"`
	Tokens []encodedToken[T] `json:"tokens"`
	Words  [][2]int          `json:"words,omitempty"`
}

func encodeAs[T wordpiece.ID](w io.Writer, tok *wordpiece.Tokenizer, text string, out config.OutputConfig) error {
	var ids []T
	var ranges []wordpiece.Range
	var words []wordpiece.Range

	wordsPtr := (*[]wordpiece.Range)(nil)
	if out.Words {
		wordsPtr = &words
	}

	wordpiece.Tokenize(tok, text, &ids, &ranges, wordsPtr)

	switch strings.ToLower(out.Format) {
	case "", "ids":
		for i, id := range ids {
			if i > 0 {
				if _, err := fmt.Fprint(w, " "); err != nil {
					return err
				}
			}

			if _, err := fmt.Fprint(w, id); err != nil {
				return err
			}
		}

		_, err := fmt.Fprintln(w)

		return err
	case "json":
		result := encodeResult[T]{IDs: ids, Tokens: make([]encodedToken[T], len(ids))}
		for i, id := range ids {
			result.Tokens[i] = encodedToken[T]{
				ID:        id,
				Text:      wordpiece.TextOf(tok, id),
				Start:     ranges[i].Start,
				End:       ranges[i].End,
				Attention: wordpiece.Attention[T, T](id),
			}
		}

		for _, wr := range words {
			result.Words = append(result.Words, [2]int{wr.Start, wr.End})
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(result)
	default:
		return fmt.Errorf("unknown output format %q (want ids or json)", out.Format)
	}
}
