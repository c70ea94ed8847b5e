// Package html converts nano structures into HTML.
//
// A nano structure is a tree of objects and lists in which keys name
// elements and "$" keys name attributes:
//
//	page := nano.Obj("div.container", []any{
//	    nano.Obj("h1.title", "Hello World"),
//	    nano.Obj("p", "Lorem ipsum dolor sit amet."),
//	})
//
//	t := html.NewTransformer()
//	out, err := t.Encode(ctx, page)
//
// produces
//
//	<div class="container">
//		<h1 class="title">Hello World</h1>
//		<p>Lorem ipsum dolor sit amet.</p>
//	</div>
//
// # Tags
//
// Tags is the HTML configuration the encoder is parameterized with: the
// default tag "p", the tags that must be closed explicitly (script, style),
// the shortcut symbols "#" (id) and "." (class), and the child tags implied
// by containers such as ul, ol and table. Lists under a container get their
// items wrapped:
//
//	nano.Obj("ul", []any{"one", "two"})  // <ul><li>one</li><li>two</li></ul>
//
// # Encoders
//
// Transformer delegates to an Encoder. The default is the nano engine; any
// other implementation of the same contract can be plugged in with
// WithEncoder, and cross-cutting behavior is added with WithMiddleware
// (see package middleware for metrics, tracing and logging).
//
// # Decoding
//
// The reverse direction, HTML to nano, is not implemented. Decode always
// fails with an error wrapping ErrNotImplemented.
package html
