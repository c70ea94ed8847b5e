package nano

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSource is returned when a source document cannot be read as a
// nano structure.
var ErrInvalidSource = errors.New("invalid nano source")

// Format identifies a source document format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatYAML  Format = "yaml"
)

// ParseFormat resolves a format name. "yml" is accepted as YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "jsonc":
		return FormatJSONC, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", ErrInvalidSource, name)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrInvalidSource, path)
	}
	return ParseFormat(ext)
}

// Decode reads a nano structure from data in the given format.
func Decode(data []byte, format Format) (any, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatJSONC:
		return DecodeJSONC(data)
	case FormatYAML:
		return DecodeYAML(data)
	}
	return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidSource, format)
}

// DecodeFile reads the file at path, choosing the format by extension.
func DecodeFile(path string) (any, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, format)
}

// SyntaxError reports where a JSON source stopped parsing.
type SyntaxError struct {
	Line   int
	Column int
	Offset int64
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d: %v", ErrInvalidSource, e.Line, e.Column, e.Err)
}

func (e *SyntaxError) Unwrap() []error {
	return []error{ErrInvalidSource, e.Err}
}

// DecodeJSON reads a JSON document. Objects keep their key order and numbers
// are returned as json.Number.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, syntaxError(data, dec.InputOffset(), err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, syntaxError(data, dec.InputOffset(), err)
	}
	return v, nil
}

// DecodeJSONC reads JSON with comments and trailing commas.
func DecodeJSONC(data []byte) (any, error) {
	return DecodeJSON(jsonc.ToJSON(data))
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T", keyTok)
			}
			value, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		list := []any{}
		for dec.More() {
			value, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

func syntaxError(data []byte, offset int64, err error) error {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		offset = se.Offset
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return &SyntaxError{Line: line, Column: col, Offset: offset, Err: err}
}

// MaxAliasNodes bounds the number of values produced by expanding YAML
// aliases, so a small document cannot expand exponentially.
const MaxAliasNodes = 100000

// DecodeYAML reads a YAML document. Mapping order is preserved. Aliases
// that refer to their own ancestry, or that expand past MaxAliasNodes
// values, fail with ErrInvalidSource.
func DecodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	d := &yamlDecoder{active: make(map[*yaml.Node]bool)}
	return d.value(&doc)
}

// yamlDecoder converts a yaml.Node graph, which may be cyclic through
// aliases, into nano values.
type yamlDecoder struct {
	// active holds the collection nodes on the current path.
	active map[*yaml.Node]bool
	// aliasDepth is the number of aliases being expanded.
	aliasDepth int
	// expanded counts values produced inside aliases.
	expanded int
}

func (d *yamlDecoder) value(n *yaml.Node) (any, error) {
	if d.aliasDepth > 0 {
		d.expanded++
		if d.expanded > MaxAliasNodes {
			return nil, fmt.Errorf("%w: line %d: aliases expand to more than %d values", ErrInvalidSource, n.Line, MaxAliasNodes)
		}
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.value(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("%w: line %d: unknown alias *%s", ErrInvalidSource, n.Line, n.Value)
		}
		if d.active[n.Alias] {
			return nil, fmt.Errorf("%w: line %d: alias *%s refers to itself", ErrInvalidSource, n.Line, n.Value)
		}
		d.aliasDepth++
		defer func() { d.aliasDepth-- }()
		return d.value(n.Alias)
	case yaml.MappingNode:
		d.active[n] = true
		defer delete(d.active, n)
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: line %d: mapping key must be a scalar", ErrInvalidSource, key.Line)
			}
			value, err := d.value(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(key.Value, value)
		}
		return obj, nil
	case yaml.SequenceNode:
		d.active[n] = true
		defer delete(d.active, n)
		list := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			value, err := d.value(item)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		return list, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return nil, fmt.Errorf("%w: line %d: unsupported YAML node", ErrInvalidSource, n.Line)
}

func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidSource, n.Line, err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidSource, n.Line, err)
		}
		return i, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidSource, n.Line, err)
		}
		return f, nil
	}
	return n.Value, nil
}
