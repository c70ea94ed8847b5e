package play

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/nanohtml/internal/errors"
	"github.com/vango-dev/nanohtml/pkg/html"
)

// Demos returns the playground demos in presentation order.
func Demos() []*Demo {
	return append([]*Demo(nil), demos...)
}

// Names returns the demo names in presentation order.
func Names() []string {
	names := make([]string, len(demos))
	for i, d := range demos {
		names[i] = d.Name
	}
	return names
}

// Lookup returns the demo with the given name.
func Lookup(name string) (*Demo, error) {
	for _, d := range demos {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, errors.New("N100").
		WithDetail(fmt.Sprintf("There is no demo named %q.", name)).
		WithSuggestion("Available demos: " + strings.Join(Names(), ", "))
}

// Transformer returns a transformer configured for the demo. Extra options
// are applied after the demo's own.
func (d *Demo) Transformer(opts ...html.Option) *html.Transformer {
	all := append(append([]html.Option(nil), d.Options...), opts...)
	return html.NewTransformer(all...)
}

// Source returns the demo data as indented JSON.
func (d *Demo) Source() (string, error) {
	data, err := json.MarshalIndent(d.Data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Render encodes the demo data and validates the result.
func (d *Demo) Render(ctx context.Context, opts ...html.Option) (string, error) {
	out, err := d.Transformer(opts...).Encode(ctx, d.Data)
	if err != nil {
		return "", err
	}
	if d.Validate != nil {
		if verr := d.Validate(out); verr != nil {
			return out, errors.New("N101").
				WithDetail(fmt.Sprintf("Demo %q: %v", d.Name, verr)).
				Wrap(verr)
		}
	}
	return out, nil
}

// PauseFunc is called between the steps of Run, e.g. to wait for a key.
type PauseFunc func(ctx context.Context) error

// Run presents a demo on w: its source, the rendered markup and the result
// of the validation. pause may be nil.
func Run(ctx context.Context, w io.Writer, d *Demo, pause PauseFunc) error {
	if pause == nil {
		pause = func(context.Context) error { return nil }
	}

	src, err := d.Source()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "== %s ==\n", d.Title)
	if d.Description != "" {
		fmt.Fprintln(w, d.Description)
	}
	fmt.Fprintf(w, "\nSource:\n%s\n", truncate(src, d.SourceLines))

	if err := pause(ctx); err != nil {
		return err
	}

	out, err := d.Render(ctx)
	if out != "" {
		fmt.Fprintf(w, "\nRendered HTML:\n%s\n", truncate(out, d.OutputLines))
	}
	if err != nil {
		return err
	}

	if err := pause(ctx); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s demo complete\n", d.Title)
	return nil
}

// RunAll runs every demo in order.
func RunAll(ctx context.Context, w io.Writer, pause PauseFunc) error {
	for _, d := range demos {
		if err := Run(ctx, w, d, pause); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

func truncate(s string, lines int) string {
	if lines <= 0 {
		return s
	}
	parts := strings.SplitN(s, "\n", lines+1)
	if len(parts) <= lines {
		return s
	}
	return strings.Join(parts[:lines], "\n") + "\n..."
}
