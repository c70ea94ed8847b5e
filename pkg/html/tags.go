package html

import (
	"slices"

	"github.com/vango-dev/nanohtml/pkg/nano"
)

// Tags holds the HTML conventions handed to the encoder.
//
// A Tags value is configuration data: build it once with NewTags (or Clone
// an existing one and adjust the copy) and treat it as read-only afterwards.
type Tags struct {
	// Default is the tag used for keys without a tag name and for objects
	// holding only attributes.
	Default string

	// NonEmptyTags are closed with an explicit end tag even when they have
	// no content, e.g. <script src="x"></script>.
	NonEmptyTags []string

	// AttrTrue is written as the value of attributes set to true. When it
	// is empty the attribute name is written alone.
	AttrTrue string

	// SingleChild lists wrapper tags that are dropped when they are the only
	// child, as tbody inside table. Only the reverse direction uses it.
	SingleChild []string

	// Shortcuts expand symbols inside element keys into attributes, in the
	// order the attributes are written.
	Shortcuts []nano.Shortcut

	// Children maps container tags to the child tag their list items imply.
	Children map[string]string

	// RawTextTags hold text that is written without escaping.
	RawTextTags []string
}

var _ nano.TagSet = (*Tags)(nil)

// DefaultHTML5Tags is the tag configuration used when none is given.
var DefaultHTML5Tags = NewTags()

// NewTags returns a new Tags value with the HTML5 defaults. Every call
// returns an equal, independent record.
func NewTags() *Tags {
	return &Tags{
		Default:      "p",
		NonEmptyTags: []string{"script", "style"},
		AttrTrue:     "",
		SingleChild:  []string{"tbody"},
		Shortcuts: []nano.Shortcut{
			{Symbol: '#', Attr: "id"},
			{Symbol: '.', Attr: "class"},
		},
		Children: map[string]string{
			"ul":     "li",
			"ol":     "li",
			"dl":     "dt",
			"table":  "tr",
			"tr":     "td",
			"select": "option",
		},
		RawTextTags: []string{"script", "style"},
	}
}

// Clone returns a deep copy of t.
func (t *Tags) Clone() *Tags {
	c := *t
	c.NonEmptyTags = slices.Clone(t.NonEmptyTags)
	c.SingleChild = slices.Clone(t.SingleChild)
	c.Shortcuts = slices.Clone(t.Shortcuts)
	c.RawTextTags = slices.Clone(t.RawTextTags)
	c.Children = make(map[string]string, len(t.Children))
	for k, v := range t.Children {
		c.Children[k] = v
	}
	return &c
}

// SelfClosed returns what follows the attributes of an empty element:
// "></tag>" for tags in NonEmptyTags and ">" for all others.
func (t *Tags) SelfClosed(tag string) string {
	if slices.Contains(t.NonEmptyTags, tag) {
		return "></" + tag + ">"
	}
	return ">"
}

// ShortcutAttr returns the attribute a shortcut symbol stands for.
func (t *Tags) ShortcutAttr(symbol rune) (string, bool) {
	for _, sc := range t.Shortcuts {
		if sc.Symbol == symbol {
			return sc.Attr, true
		}
	}
	return "", false
}

// IsSingleChild reports whether tag is a collapsible wrapper.
func (t *Tags) IsSingleChild(tag string) bool {
	return slices.Contains(t.SingleChild, tag)
}

func (t *Tags) DefaultTag() string            { return t.Default }
func (t *Tags) TrueValue() string             { return t.AttrTrue }
func (t *Tags) TagAttrs() []nano.Shortcut     { return t.Shortcuts }
func (t *Tags) ChildTag(parent string) string { return t.Children[parent] }

func (t *Tags) IsRawText(tag string) bool {
	return slices.Contains(t.RawTextTags, tag)
}
