package nano

// Key prefixes with a fixed meaning inside nano objects.
const (
	AttrPrefix        = "$"
	CommentPrefix     = "#"
	DeclarationPrefix = "!"
)

// Shortcut maps a symbol inside an element key to an attribute name,
// e.g. '.' to "class" so that "div.card" becomes <div class="card">.
type Shortcut struct {
	Symbol rune
	Attr   string
}

// TagSet supplies the markup-specific conventions the encoder follows.
type TagSet interface {
	// DefaultTag is used for element keys with no tag name.
	DefaultTag() string

	// SelfClosed returns the text that closes an empty element after its
	// attributes, for example ">" or "></script>".
	SelfClosed(tag string) string

	// TrueValue is written as the value of attributes set to true.
	// An empty string writes the attribute name alone.
	TrueValue() string

	// TagAttrs lists the shortcut symbols in the order their attributes
	// are written.
	TagAttrs() []Shortcut

	// ChildTag returns the implied child tag of a container, or "".
	ChildTag(parent string) string

	// IsRawText reports whether text inside tag is written unescaped.
	IsRawText(tag string) bool
}

// XMLTags is a TagSet with plain XML conventions: empty elements close with
// " />", there are no shortcuts and no implied children.
type XMLTags struct{}

var _ TagSet = XMLTags{}

func (XMLTags) DefaultTag() string       { return "item" }
func (XMLTags) SelfClosed(string) string { return " />" }
func (XMLTags) TrueValue() string        { return "true" }
func (XMLTags) TagAttrs() []Shortcut     { return nil }
func (XMLTags) ChildTag(string) string   { return "" }
func (XMLTags) IsRawText(string) bool    { return false }
