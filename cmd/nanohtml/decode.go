package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nanohtml/pkg/html"
)

func decodeCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [file]",
		Short: "Convert HTML back to a nano document (not implemented)",
		Long: `Convert HTML back to a nano document.

Reading markup back into a nano structure is not implemented yet;
the command always fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				markup []byte
				err    error
			)
			if len(args) == 1 && args[0] != "-" {
				markup, err = os.ReadFile(args[0])
			} else {
				markup, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			_, err = html.NewTransformer(cfg.TransformerOptions()...).Decode(cmd.Context(), string(markup))
			return err
		},
	}
}
