package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nanohtml/pkg/play"
)

func playCmd(g *globals) *cobra.Command {
	var (
		all     bool
		noPause bool
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "play [demo]",
		Short: "Walk through the playground demos",
		Long: `Walk through the playground demos.

Each demo prints its nano source, waits for Enter, renders the
HTML and checks the result. Without a demo name the first demo
runs; --all runs them in order.

Examples:
  nanohtml play --list
  nanohtml play lists
  nanohtml play --all --no-pause`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			if list {
				for _, d := range play.Demos() {
					fmt.Fprintf(w, "%-16s %s\n", d.Name, d.Title)
				}
				return nil
			}

			var pause play.PauseFunc
			if !noPause {
				pause = enterPause(cmd.InOrStdin(), w)
			}

			if all {
				return play.RunAll(cmd.Context(), w, pause)
			}

			name := play.Names()[0]
			if len(args) == 1 {
				name = args[0]
			}
			d, err := play.Lookup(name)
			if err != nil {
				return err
			}
			return play.Run(cmd.Context(), w, d, pause)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Run every demo")
	cmd.Flags().BoolVar(&noPause, "no-pause", false, "Do not wait for Enter between steps")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List the demos")

	return cmd
}

// enterPause waits for a line on r. End of input stops waiting for good.
func enterPause(r io.Reader, w io.Writer) play.PauseFunc {
	reader := bufio.NewReader(r)
	eof := false

	return func(ctx context.Context) error {
		if eof {
			return ctx.Err()
		}
		fmt.Fprint(w, "\nPress Enter to continue...")

		done := make(chan error, 1)
		go func() {
			_, err := reader.ReadString('\n')
			done <- err
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-done:
			if err == io.EOF {
				eof = true
				return nil
			}
			return err
		}
	}
}
