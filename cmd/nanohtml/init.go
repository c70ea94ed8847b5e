package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nanohtml/internal/config"
	"github.com/vango-dev/nanohtml/internal/errors"
)

func initCmd(g *globals) *cobra.Command {
	var (
		force  bool
		bucket string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a nanohtml.json with the default settings",
		Long: `Create a nanohtml.json with the default settings.

The file is written to the given directory, or the working
directory. An existing file is kept unless --force is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.New("N043").Wrap(err)
			}

			path := filepath.Join(dir, config.ConfigFileName)
			if config.Exists(dir) && !force {
				return errors.New("N043").
					WithDetail(path + " already exists.").
					WithSuggestion("Pass --force to overwrite it")
			}

			cfg := config.New()
			cfg.Publish.Bucket = bucket
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Created %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Publish bucket to record")

	return cmd
}
