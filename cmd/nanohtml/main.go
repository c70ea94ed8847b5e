package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nanohtml/internal/config"
	"github.com/vango-dev/nanohtml/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┐┌┌─┐┌┐┌┌─┐┬ ┬┌┬┐┌┬┐┬
  │││├─┤││││ │├─┤ │ ││││
  ┘└┘┴ ┴┘└┘└─┘┴ ┴ ┴ ┴ ┴┴─┘
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

// globals holds the persistent flags.
type globals struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "nanohtml",
		Short: "Turn nano structures into HTML",
		Long: `nanohtml converts nano structures into HTML.

A nano structure is a compact nested object/array notation:
objects become elements, "$" keys become attributes, "#" keys
become comments, and shortcuts such as "div.card#main" expand
into class and id attributes.

Documents can be written as JSON, JSONC or YAML.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), g.verbose)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to "+config.ConfigFileName+" (default: discovered from the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		encodeCmd(g),
		decodeCmd(g),
		playCmd(g),
		serveCmd(g),
		publishCmd(g),
		initCmd(g),
		versionCmd(),
	)

	return rootCmd
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadConfig returns the configuration named by --config, or the one found
// from the working directory, or the defaults.
func (g *globals) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		var wd string
		wd, err = os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg, err = config.Discover(wd)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("configuration loaded", "component", "cli", "path", cfg.Path())
	return cfg, nil
}

// printBanner prints the nanohtml banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
