package main

import (
	"fmt"
	"log/slog"

	"github.com/example/go-wordpiece/wordpiece"
	"github.com/spf13/cobra"
)

func newVocabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Inspect or round-trip the vocabulary",
	}

	cmd.AddCommand(newVocabInfoCmd())
	cmd.AddCommand(newVocabSaveCmd())

	return cmd
}

func newVocabInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print vocabulary size and structural token ids",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			tok, err := wordpiece.FromVocab(cfg.Vocab.Path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tokens: %d\n", tok.Len())
			fmt.Fprintf(out, "unk: %d\n", tok.UnkID())

			if id, ok := tok.PrefixID(); ok {
				fmt.Fprintf(out, "cls: %d\n", id)
			} else {
				fmt.Fprintln(out, "cls: absent")
			}

			if id, ok := tok.SuffixID(); ok {
				fmt.Fprintf(out, "sep: %d\n", id)
			} else {
				fmt.Fprintln(out, "sep: absent")
			}

			return nil
		},
	}
}

func newVocabSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <dest>",
		Short: "Write the vocabulary back out, one token per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			tok, err := wordpiece.FromVocab(cfg.Vocab.Path)
			if err != nil {
				return err
			}

			if err := tok.SaveVocab(args[0]); err != nil {
				return err
			}

			slog.Info("vocabulary saved", "dest", args[0], "tokens", tok.Len())

			return nil
		},
	}
}
