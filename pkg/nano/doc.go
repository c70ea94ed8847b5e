// Package nano encodes nano structures into markup.
//
// A nano structure is a tree of plain Go values describing elements in a
// compact, JSON-like notation:
//
//	nano.Obj("div.card#main", []any{
//	    nano.Obj("h1", "Title"),
//	    nano.Obj("a.btn", "More", "$href", "/more"),
//	})
//
// The encoder knows nothing about a particular markup language. Every
// language-specific decision is delegated to a TagSet: the default tag name,
// how empty elements are closed, which key symbols expand into attributes,
// which containers imply a child tag and which elements carry raw text.
//
// # Values
//
// The encoder accepts nil, bool, string, numeric kinds, json.Number, []any,
// *Object and map[string]any. Objects keep their key order, which is
// significant: the first element key of an object receives the object's
// attributes. A plain map[string]any is visited in sorted key order.
//
// # Keys
//
// Inside an object:
//
//   - "$name" sets attribute name on the element the object defines.
//   - "#text" writes a comment. A scalar value is appended as "text: value".
//   - "!NAME" writes a declaration such as <!DOCTYPE html>.
//   - Any other key is an element key: a tag name optionally followed by
//     shortcut segments such as ".class" or "#id".
//
// # Formatting
//
// Options.Indent and Options.NewLine control layout. Elements holding text
// are always written on one line; other elements put each child on its own
// line. Setting both to "" produces minified output.
//
// # Sources
//
// DecodeJSON, DecodeJSONC and DecodeYAML read nano structures from source
// documents while preserving object key order.
package nano
