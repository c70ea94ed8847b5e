package nano

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedValue is returned when a nano structure contains a value the
// encoder cannot represent.
var ErrUnsupportedValue = errors.New("unsupported nano value")

type nodeKind uint8

const (
	kindElement nodeKind = iota
	kindText
	kindComment
	kindDeclaration
)

// node is one entry of the element tree built from a nano structure.
type node struct {
	kind     nodeKind
	tag      string
	text     string
	attrs    attrList
	children []*node
	empty    bool
}

type attr struct {
	name   string
	values []string
}

// attrList keeps attributes in insertion order; repeated names accumulate
// values instead of adding a second attribute.
type attrList []attr

func (l *attrList) index(name string) int {
	for i := range *l {
		if (*l)[i].name == name {
			return i
		}
	}
	return -1
}

func (l *attrList) add(name string, values ...string) {
	i := l.index(name)
	if i < 0 {
		*l = append(*l, attr{name: name})
		i = len(*l) - 1
	}
	(*l)[i].values = append((*l)[i].values, values...)
}

// set applies a nano attribute value: false and nil leave the list alone,
// true adds a valueless attribute, scalars and lists add values.
func (l *attrList) set(name string, value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		if v {
			l.add(name)
		}
		return nil
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			switch item.(type) {
			case nil, bool:
				continue
			}
			s, ok := scalarString(item)
			if !ok {
				return fmt.Errorf("%w: attribute %q holds %s", ErrUnsupportedValue, name, describe(item))
			}
			values = append(values, s)
		}
		l.add(name, values...)
		return nil
	}
	s, ok := scalarString(value)
	if !ok {
		return fmt.Errorf("%w: attribute %q holds %s", ErrUnsupportedValue, name, describe(value))
	}
	l.add(name, s)
	return nil
}

type builder struct {
	tags TagSet
}

// value builds the nodes for any nano value appearing as content.
func (b *builder) value(v any, parent string) ([]*node, error) {
	switch v := v.(type) {
	case nil, bool:
		return nil, nil
	case string:
		return []*node{{kind: kindText, text: v}}, nil
	case []any:
		return b.list(v, parent)
	case *Object:
		return b.entry(v)
	case map[string]any:
		return b.entry(FromMap(v))
	}
	if s, ok := scalarString(v); ok {
		return []*node{{kind: kindText, text: s}}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedValue, describe(v))
}

// list builds the items of a list. When parent implies a child tag, every
// item is made to be such a child.
func (b *builder) list(items []any, parent string) ([]*node, error) {
	var child string
	if parent != "" {
		child = b.tags.ChildTag(parent)
	}

	var out []*node
	for _, item := range items {
		if sub, ok := item.([]any); ok && child != "" {
			kids, err := b.list(sub, child)
			if err != nil {
				return nil, err
			}
			out = append(out, &node{kind: kindElement, tag: child, children: kids})
			continue
		}

		nodes, err := b.value(item, parent)
		if err != nil {
			return nil, err
		}
		if len(nodes) == 0 {
			continue
		}
		if child != "" && !isChild(nodes, child) {
			nodes = []*node{{kind: kindElement, tag: child, children: nodes}}
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func isChild(nodes []*node, child string) bool {
	if len(nodes) != 1 {
		return false
	}
	n := nodes[0]
	return n.kind == kindComment || (n.kind == kindElement && n.tag == child)
}

// entry builds the nodes of an object standing on its own: its attributes
// belong to the first element key, later keys become siblings.
func (b *builder) entry(obj *Object) ([]*node, error) {
	var attrs attrList
	owner := ""
	for _, key := range obj.keys {
		if name, ok := strings.CutPrefix(key, AttrPrefix); ok {
			if err := attrs.set(name, obj.values[key]); err != nil {
				return nil, err
			}
			continue
		}
		if owner == "" && !strings.HasPrefix(key, CommentPrefix) {
			owner = key
		}
	}

	var out []*node
	for _, key := range obj.keys {
		if strings.HasPrefix(key, AttrPrefix) {
			continue
		}
		var own attrList
		if key == owner {
			own = attrs
		}
		nodes, err := b.element(key, obj.values[key], own)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}

	if owner == "" && len(attrs) > 0 {
		out = append(out, &node{kind: kindElement, tag: b.tags.DefaultTag(), attrs: attrs, empty: true})
	}
	return out, nil
}

// element builds the node for a single key/value pair.
func (b *builder) element(key string, value any, attrs attrList) ([]*node, error) {
	if text, ok := strings.CutPrefix(key, CommentPrefix); ok {
		return b.comment(text, value)
	}
	if name, ok := strings.CutPrefix(key, DeclarationPrefix); ok {
		return b.declaration(name, value, attrs)
	}

	tag, own := b.parseKey(key)
	for _, a := range attrs {
		own.add(a.name, a.values...)
	}
	n := &node{kind: kindElement, tag: tag, attrs: own}

	switch v := value.(type) {
	case nil:
		n.empty = true
	case bool:
		if !v {
			return nil, nil
		}
		n.empty = true
	case string:
		if v == "" {
			n.empty = true
		} else {
			n.children = []*node{{kind: kindText, text: v}}
		}
	case []any:
		kids, err := b.list(v, tag)
		if err != nil {
			return nil, err
		}
		n.children = kids
	case *Object:
		if err := b.content(n, v); err != nil {
			return nil, err
		}
	case map[string]any:
		if err := b.content(n, FromMap(v)); err != nil {
			return nil, err
		}
	default:
		s, ok := scalarString(v)
		if !ok {
			return nil, fmt.Errorf("%w: element %q holds %s", ErrUnsupportedValue, key, describe(v))
		}
		n.children = []*node{{kind: kindText, text: s}}
	}
	return []*node{n}, nil
}

// content fills n from an object value: "$" keys are attributes of n and
// every other key is a child entry. An object holding only attributes
// leaves n empty.
func (b *builder) content(n *node, obj *Object) error {
	var items []any
	for _, key := range obj.keys {
		if name, ok := strings.CutPrefix(key, AttrPrefix); ok {
			if err := n.attrs.set(name, obj.values[key]); err != nil {
				return err
			}
			continue
		}
		items = append(items, Obj(key, obj.values[key]))
	}
	if len(items) == 0 {
		n.empty = true
		return nil
	}
	kids, err := b.list(items, n.tag)
	if err != nil {
		return err
	}
	n.children = kids
	return nil
}

func (b *builder) comment(text string, value any) ([]*node, error) {
	switch v := value.(type) {
	case nil:
	case bool:
		if !v {
			return nil, nil
		}
	default:
		s, ok := scalarString(v)
		if !ok {
			return nil, fmt.Errorf("%w: comment %q holds %s", ErrUnsupportedValue, text, describe(v))
		}
		if s != "" {
			text += ": " + s
		}
	}
	return []*node{{kind: kindComment, text: text}}, nil
}

func (b *builder) declaration(name string, value any, attrs attrList) ([]*node, error) {
	n := &node{kind: kindDeclaration, tag: name, attrs: attrs}
	switch v := value.(type) {
	case nil:
	case bool:
		if !v {
			return nil, nil
		}
	default:
		s, ok := scalarString(v)
		if !ok {
			return nil, fmt.Errorf("%w: declaration %q holds %s", ErrUnsupportedValue, name, describe(v))
		}
		n.text = s
	}
	return []*node{n}, nil
}

// parseKey splits an element key such as "a.btn.btn-primary#go" into its tag
// name and the attributes its shortcut segments stand for.
func (b *builder) parseKey(key string) (string, attrList) {
	shortcuts := b.tags.TagAttrs()
	isShortcut := func(r rune) bool {
		for _, sc := range shortcuts {
			if sc.Symbol == r {
				return true
			}
		}
		return false
	}

	tag, rest := key, ""
	if i := strings.IndexFunc(key, isShortcut); i >= 0 {
		tag, rest = key[:i], key[i:]
	}
	if tag == "" {
		tag = b.tags.DefaultTag()
	}
	if rest == "" || len(shortcuts) == 0 {
		return tag, nil
	}

	segments := make(map[rune][]string)
	for rest != "" {
		sym, size := utf8.DecodeRuneInString(rest)
		rest = rest[size:]
		seg := rest
		if i := strings.IndexFunc(rest, isShortcut); i >= 0 {
			seg = rest[:i]
		}
		rest = rest[len(seg):]
		if seg != "" {
			segments[sym] = append(segments[sym], seg)
		}
	}

	var attrs attrList
	for _, sc := range shortcuts {
		if values := segments[sc.Symbol]; len(values) > 0 {
			attrs.add(sc.Attr, values...)
		}
	}
	return tag, attrs
}

// scalarString formats strings and numbers. It reports false for any other
// kind of value.
func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return formatFloat(float64(v), 32), true
	case float64:
		return formatFloat(v, 64), true
	}
	return "", false
}

func formatFloat(f float64, bits int) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
