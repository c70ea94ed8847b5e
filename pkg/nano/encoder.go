package nano

import (
	"io"
	"strings"
)

// Options controls how a nano structure is written.
type Options struct {
	// Indent is written once per nesting level in front of block children.
	Indent string

	// NewLine separates top-level nodes and block children.
	NewLine string

	// Tags supplies the markup conventions. XMLTags is used when nil.
	Tags TagSet
}

// Encode converts a nano structure into markup.
func Encode(data any, opts Options) (string, error) {
	tags := opts.Tags
	if tags == nil {
		tags = XMLTags{}
	}

	b := &builder{tags: tags}
	nodes, err := b.value(data, "")
	if err != nil {
		return "", err
	}

	w := &writer{opts: opts, tags: tags}
	for i, n := range nodes {
		if i > 0 {
			w.buf.WriteString(opts.NewLine)
		}
		w.node(n, 0, false, false)
	}
	return w.buf.String(), nil
}

// EncodeTo writes the markup for data to w.
func EncodeTo(w io.Writer, data any, opts Options) error {
	out, err := Encode(data, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

type writer struct {
	buf  strings.Builder
	opts Options
	tags TagSet
}

// node writes n at the given depth. Inline nodes get no indentation and keep
// their whole subtree on one line; raw marks text that must not be escaped.
func (w *writer) node(n *node, depth int, inline, raw bool) {
	if !inline {
		w.indent(depth)
	}

	switch n.kind {
	case kindText:
		if raw {
			w.buf.WriteString(n.text)
		} else {
			w.buf.WriteString(Escape(n.text))
		}
	case kindComment:
		w.buf.WriteString("<!-- ")
		w.buf.WriteString(escapeComment(n.text))
		w.buf.WriteString(" -->")
	case kindDeclaration:
		w.buf.WriteString("<!")
		w.buf.WriteString(n.tag)
		w.attrs(n.attrs)
		if n.text != "" {
			w.buf.WriteByte(' ')
			w.buf.WriteString(n.text)
		}
		w.buf.WriteByte('>')
	case kindElement:
		w.element(n, depth, inline)
	}
}

func (w *writer) element(n *node, depth int, inline bool) {
	w.buf.WriteByte('<')
	w.buf.WriteString(n.tag)
	w.attrs(n.attrs)

	if n.empty {
		w.buf.WriteString(w.tags.SelfClosed(n.tag))
		return
	}
	w.buf.WriteByte('>')

	raw := w.tags.IsRawText(n.tag)
	if inline || hasText(n.children) {
		for _, child := range n.children {
			w.node(child, depth+1, true, raw)
		}
	} else if len(n.children) > 0 {
		for _, child := range n.children {
			w.buf.WriteString(w.opts.NewLine)
			w.node(child, depth+1, false, raw)
		}
		w.buf.WriteString(w.opts.NewLine)
		w.indent(depth)
	}

	w.buf.WriteString("</")
	w.buf.WriteString(n.tag)
	w.buf.WriteByte('>')
}

func (w *writer) attrs(attrs attrList) {
	for _, a := range attrs {
		w.buf.WriteByte(' ')
		w.buf.WriteString(a.name)

		value := strings.Join(a.values, " ")
		if len(a.values) == 0 {
			value = w.tags.TrueValue()
			if value == "" {
				continue
			}
		}
		w.buf.WriteString(`="`)
		w.buf.WriteString(Escape(value))
		w.buf.WriteByte('"')
	}
}

func (w *writer) indent(depth int) {
	if w.opts.Indent == "" {
		return
	}
	for i := 0; i < depth; i++ {
		w.buf.WriteString(w.opts.Indent)
	}
}

func hasText(nodes []*node) bool {
	for _, n := range nodes {
		if n.kind == kindText {
			return true
		}
	}
	return false
}
