package html

import "strings"

var entities = map[rune]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'"':  "&quot;",
	'\'': "&#039;",
}

// Escape replaces & < > " and ' in s with HTML entities. Characters listed
// in keep are left as they are:
//
//	Escape(`&<>"'`)           // &amp;&lt;&gt;&quot;&#039;
//	Escape(`&<>"'`, "<", ">") // &amp;<>&quot;&#039;
//
// The encoder escapes text on its own; Escape is for markup built by hand.
func Escape(s string, keep ...string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 16)

	for _, r := range s {
		entity, ok := entities[r]
		if !ok || kept(r, keep) {
			buf.WriteRune(r)
			continue
		}
		buf.WriteString(entity)
	}

	return buf.String()
}

func kept(r rune, keep []string) bool {
	for _, k := range keep {
		if strings.ContainsRune(k, r) {
			return true
		}
	}
	return false
}
