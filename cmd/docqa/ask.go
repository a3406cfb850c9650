package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docqa/internal/domain"
	"docqa/internal/extract"
	"docqa/internal/tui"
)

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <file> <query...>",
		Short: "Load a file and print the best matching pair for one question",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			sess, err := a.service.LoadFile(ctx, args[0])
			switch {
			case errors.Is(err, domain.ErrUnsupportedFormat):
				fmt.Fprintln(cmd.ErrOrStderr(), "Unsupported file type.")
				return err
			case errors.Is(err, domain.ErrNoPairsFound):
				fmt.Fprintln(cmd.ErrOrStderr(), tui.NoPairsWarning)
				return err
			case err != nil:
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Found %d Q&A pairs.\n", len(sess.Pairs))

			match, ok, err := a.service.Ask(ctx, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			fmt.Fprintln(out, "Best Match Answer:")
			fmt.Fprintln(out, match.Pair.Text())
			return nil
		},
	}
}

func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported document formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, ext := range extract.NewRegistry().Supported() {
				fmt.Fprintln(cmd.OutOrStdout(), ext)
			}
			return nil
		},
	}
}
