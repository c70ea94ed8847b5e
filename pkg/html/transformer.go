package html

import (
	"context"
	"errors"
	"io"

	nerrors "github.com/vango-dev/nanohtml/internal/errors"
	"github.com/vango-dev/nanohtml/pkg/nano"
)

// ErrNotImplemented is wrapped by every error Decode returns.
var ErrNotImplemented = errors.New("html: Transformer.Decode is not implemented yet")

// Encoder turns a nano structure into markup using the given layout and tag
// configuration.
type Encoder interface {
	Encode(ctx context.Context, data any, opts nano.Options) (string, error)
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(ctx context.Context, data any, opts nano.Options) (string, error)

// Encode calls f.
func (f EncoderFunc) Encode(ctx context.Context, data any, opts nano.Options) (string, error) {
	return f(ctx, data, opts)
}

// Middleware wraps an Encoder with extra behavior.
type Middleware func(next Encoder) Encoder

// Chain applies middleware to enc. The first middleware is the outermost.
func Chain(enc Encoder, mw ...Middleware) Encoder {
	for i := len(mw) - 1; i >= 0; i-- {
		enc = mw[i](enc)
	}
	return enc
}

// Engine is the default Encoder. It runs the nano encoder.
var Engine Encoder = EncoderFunc(func(_ context.Context, data any, opts nano.Options) (string, error) {
	return nano.Encode(data, opts)
})

// Transformer converts nano structures to HTML.
//
// A Transformer is immutable once built and safe for concurrent use.
type Transformer struct {
	indent  string
	eol     string
	tags    *Tags
	encoder Encoder
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithIndent sets the string written once per nesting level. Default "\t".
func WithIndent(indent string) Option {
	return func(t *Transformer) {
		t.indent = indent
	}
}

// WithEOL sets the line separator. Default "\n".
func WithEOL(eol string) Option {
	return func(t *Transformer) {
		t.eol = eol
	}
}

// WithMinify is shorthand for WithIndent("") and WithEOL("").
func WithMinify() Option {
	return func(t *Transformer) {
		t.indent = ""
		t.eol = ""
	}
}

// WithTags sets the tag configuration. Default DefaultHTML5Tags.
func WithTags(tags *Tags) Option {
	return func(t *Transformer) {
		if tags != nil {
			t.tags = tags
		}
	}
}

// WithEncoder replaces the engine the transformer delegates to.
func WithEncoder(enc Encoder) Option {
	return func(t *Transformer) {
		if enc != nil {
			t.encoder = enc
		}
	}
}

// WithMiddleware wraps the encoder. Middleware added first runs first.
// Apply it after WithEncoder.
func WithMiddleware(mw ...Middleware) Option {
	return func(t *Transformer) {
		t.encoder = Chain(t.encoder, mw...)
	}
}

// NewTransformer creates a Transformer.
func NewTransformer(opts ...Option) *Transformer {
	t := &Transformer{
		indent:  "\t",
		eol:     "\n",
		tags:    DefaultHTML5Tags,
		encoder: Engine,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Indent returns the indentation string.
func (t *Transformer) Indent() string { return t.indent }

// EOL returns the line separator.
func (t *Transformer) EOL() string { return t.eol }

// Tags returns the tag configuration.
func (t *Transformer) Tags() *Tags { return t.tags }

// Options returns the layout and tags passed to the encoder.
func (t *Transformer) Options() nano.Options {
	return nano.Options{Indent: t.indent, NewLine: t.eol, Tags: t.tags}
}

// Encode converts data into HTML.
func (t *Transformer) Encode(ctx context.Context, data any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return t.encoder.Encode(ctx, data, t.Options())
}

// EncodeTo writes the HTML for data to w.
func (t *Transformer) EncodeTo(ctx context.Context, w io.Writer, data any) error {
	out, err := t.Encode(ctx, data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Decode would parse HTML back into a nano structure. It is not implemented
// and fails for every input with an error wrapping ErrNotImplemented.
func (t *Transformer) Decode(ctx context.Context, markup string) (any, error) {
	return nil, nerrors.New("N001").
		WithSuggestion("Write the nano structure by hand or keep the source document next to the HTML").
		Wrap(ErrNotImplemented)
}
