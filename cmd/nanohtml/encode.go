package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nanohtml/internal/config"
	"github.com/vango-dev/nanohtml/internal/errors"
	"github.com/vango-dev/nanohtml/pkg/html"
	"github.com/vango-dev/nanohtml/pkg/middleware"
	"github.com/vango-dev/nanohtml/pkg/nano"
)

// layoutFlags are the output layout flags shared by encode and publish.
type layoutFlags struct {
	format string
	minify bool
	indent string
	eol    string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Source format: json, jsonc or yaml (default: from the file extension, jsonc for stdin)")
	cmd.Flags().BoolVarP(&f.minify, "minify", "m", false, "Write everything on one line")
	cmd.Flags().StringVar(&f.indent, "indent", "", `Indentation per level, escapes allowed (e.g. "  " or "\t")`)
	cmd.Flags().StringVar(&f.eol, "eol", "", `Line separator, escapes allowed (e.g. "\r\n")`)
}

// transformer builds a transformer from the configuration with the flags
// applied on top.
func (f *layoutFlags) transformer(cmd *cobra.Command, cfg *config.Config) (*html.Transformer, error) {
	opts := cfg.TransformerOptions()

	if cmd.Flags().Changed("indent") {
		indent, err := unescape(f.indent)
		if err != nil {
			return nil, fmt.Errorf("invalid --indent: %w", err)
		}
		opts = append(opts, html.WithIndent(indent))
	}
	if cmd.Flags().Changed("eol") {
		eol, err := unescape(f.eol)
		if err != nil {
			return nil, fmt.Errorf("invalid --eol: %w", err)
		}
		opts = append(opts, html.WithEOL(eol))
	}
	if f.minify {
		opts = append(opts, html.WithMinify())
	}
	opts = append(opts, html.WithMiddleware(middleware.Logging(slog.Default())))

	return html.NewTransformer(opts...), nil
}

// unescape interprets Go escape sequences such as \t and \n.
func unescape(s string) (string, error) {
	return strconv.Unquote(`"` + s + `"`)
}

// readSource decodes the nano document at path, or stdin for "" and "-".
func (f *layoutFlags) readSource(cmd *cobra.Command, path string) (any, error) {
	var (
		format nano.Format
		err    error
	)
	switch {
	case f.format != "":
		format, err = nano.ParseFormat(f.format)
	case path == "" || path == "-":
		format = nano.FormatJSONC
	default:
		format, err = nano.FormatFromPath(path)
	}
	if err != nil {
		return nil, errors.New("N021").
			WithSuggestion("Pass --format json, jsonc or yaml").
			Wrap(err)
	}

	var data []byte
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		path = ""
	} else {
		data, err = os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil, errors.New("N022").
				WithDetail(fmt.Sprintf("%s does not exist.", path)).
				Wrap(err)
		}
	}
	if err != nil {
		return nil, err
	}

	doc, err := nano.Decode(data, format)
	if err != nil {
		return nil, errors.New("N020").
			WithLocationFromError(path, err).
			Wrap(err)
	}
	return doc, nil
}

func encodeCmd(g *globals) *cobra.Command {
	var (
		layout layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Convert a nano document to HTML",
		Long: `Convert a nano document to HTML.

The document is read from the given file, or from stdin when no
file (or "-") is given. The format is taken from the file extension
unless --format is set.

Examples:
  nanohtml encode page.json
  nanohtml encode page.yaml -o page.html
  nanohtml encode --minify < page.jsonc
  nanohtml encode --indent "  " --eol "\r\n" page.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return runEncode(cmd, g, &layout, path, output)
		},
	}

	layout.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the HTML to this file instead of stdout")

	return cmd
}

func runEncode(cmd *cobra.Command, g *globals, layout *layoutFlags, path, output string) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	t, err := layout.transformer(cmd, cfg)
	if err != nil {
		return err
	}
	doc, err := layout.readSource(cmd, path)
	if err != nil {
		return err
	}

	out, err := t.Encode(cmd.Context(), doc)
	if stderrors.Is(err, nano.ErrUnsupportedValue) {
		return errors.New("N002").Wrap(err)
	}
	if err != nil {
		return err
	}

	if output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}
	if err := os.WriteFile(output, []byte(out+"\n"), 0o644); err != nil {
		return errors.New("N102").Wrap(err)
	}
	success(cmd.ErrOrStderr(), "Wrote %s (%d bytes)", output, len(out)+1)
	return nil
}
