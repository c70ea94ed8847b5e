package nano

import "strings"

// Escape replaces the characters that are unsafe in markup text and
// attribute values with entities:
//
//	&  ->  &amp;
//	<  ->  &lt;
//	>  ->  &gt;
//	"  ->  &quot;
func Escape(s string) string {
	if !strings.ContainsAny(s, `&<>"`) {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 16)

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeComment keeps comment text from terminating the comment early.
func escapeComment(s string) string {
	return strings.ReplaceAll(s, "-->", "--&gt;")
}
