package nano

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeJSONPreservesOrder(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"z": {"b": 1, "a": [true, null, "x"]}, "$y": 2}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	obj, ok := v.(*Object)
	if !ok {
		t.Fatalf("got %T, want *Object", v)
	}
	if keys := obj.Keys(); len(keys) != 2 || keys[0] != "z" || keys[1] != "$y" {
		t.Errorf("keys = %v", keys)
	}

	inner, _ := obj.Get("z")
	innerObj := inner.(*Object)
	if keys := innerObj.Keys(); keys[0] != "b" || keys[1] != "a" {
		t.Errorf("inner keys = %v", keys)
	}
	b, _ := innerObj.Get("b")
	if n, ok := b.(json.Number); !ok || n.String() != "1" {
		t.Errorf("b = %#v, want json.Number(1)", b)
	}
	list, _ := innerObj.Get("a")
	items := list.([]any)
	if len(items) != 3 || items[0] != true || items[1] != nil || items[2] != "x" {
		t.Errorf("list = %#v", items)
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
	}{
		{"empty", "", 1},
		{"unterminated", "{\n  \"a\": [1, 2\n", 0},
		{"trailing data", "{}\n{}", 2},
		{"syntax", "{\n\"a\" 1}", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.src))
			if !errors.Is(err, ErrInvalidSource) {
				t.Fatalf("expected ErrInvalidSource, got %v", err)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}
			if tt.wantLine > 0 && se.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", se.Line, tt.wantLine)
			}
		})
	}
}

func TestDecodeJSONC(t *testing.T) {
	src := `{
		// page heading
		"h1": "Hi", /* inline */
		"p": ["a", "b",],
	}`
	v, err := DecodeJSONC([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := Encode(v, minified())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := "<h1>Hi</h1><p>ab</p>"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeYAML(t *testing.T) {
	src := `
- "!DOCTYPE": true
  $html: true
- $lang: en
  html:
    - body:
        - h1: Hello
        - ul: [one, 2, 3.5, yes]
        - p: ~
`
	v, err := DecodeYAML([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := Encode(v, minified())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `<!DOCTYPE html>` +
		`<html lang="en"><body><h1>Hello</h1>` +
		`<ul><li>one</li><li>2</li><li>3.5</li><li>yes</li></ul><p></body></html>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeYAMLAnchors(t *testing.T) {
	src := `
defs:
  - &greet {b: hi}
page:
  - *greet
`
	v, err := DecodeYAML([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page, _ := v.(*Object).Get("page")
	item := page.([]any)[0].(*Object)
	if got, _ := item.Get("b"); got != "hi" {
		t.Errorf("alias value = %v, want hi", got)
	}
}

func TestDecodeYAMLRecursiveAlias(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"sequence", "a: &x [*x]\n"},
		{"mapping", "&m {k: *m}\n"},
		{"nested", "a: &x\n  b:\n    - c: *x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeYAML([]byte(tt.src))
			if !errors.Is(err, ErrInvalidSource) {
				t.Fatalf("expected ErrInvalidSource, got %v", err)
			}
			if !strings.Contains(err.Error(), "refers to itself") {
				t.Errorf("error = %q", err)
			}
		})
	}
}

func TestDecodeYAMLRepeatedAlias(t *testing.T) {
	v, err := DecodeYAML([]byte("a: &x [1]\nb: [*x, *x]\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := v.(*Object).Get("b")
	if got := len(b.([]any)); got != 2 {
		t.Errorf("len(b) = %d, want 2", got)
	}
}

// laughs builds a document whose last list expands to 10^levels strings.
func laughs(levels int) string {
	var sb strings.Builder
	sb.WriteString("l0: &l0 [" + strings.TrimSuffix(strings.Repeat("lol, ", 10), ", ") + "]\n")
	for i := 1; i <= levels; i++ {
		refs := strings.TrimSuffix(strings.Repeat(fmt.Sprintf("*l%d, ", i-1), 10), ", ")
		fmt.Fprintf(&sb, "l%d: &l%d [%s]\n", i, i, refs)
	}
	return sb.String()
}

func TestDecodeYAMLAliasExpansionLimit(t *testing.T) {
	if _, err := DecodeYAML([]byte(laughs(3))); err != nil {
		t.Fatalf("moderate aliasing rejected: %v", err)
	}

	_, err := DecodeYAML([]byte(laughs(7)))
	if !errors.Is(err, ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v", err)
	}
	if !strings.Contains(err.Error(), "aliases expand") {
		t.Errorf("error = %q", err)
	}
}

func TestDecodeYAMLEmpty(t *testing.T) {
	v, err := DecodeYAML(nil)
	if err != nil || v != nil {
		t.Errorf("got %v, %v; want nil, nil", v, err)
	}
}

func TestDecodeYAMLInvalid(t *testing.T) {
	_, err := DecodeYAML([]byte("a: [1, 2"))
	if !errors.Is(err, ErrInvalidSource) {
		t.Errorf("expected ErrInvalidSource, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{".JSONC", FormatJSONC, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"toml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"page.json":  `{"b": "x"}`,
		"page.jsonc": `{"b": "x", /* c */}`,
		"page.yaml":  "b: x\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		v, err := DecodeFile(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		got, err := Encode(v, minified())
		if err != nil {
			t.Fatalf("%s: Encode: %v", name, err)
		}
		if got != "<b>x</b>" {
			t.Errorf("%s: got %q", name, got)
		}
	}

	if _, err := DecodeFile(filepath.Join(dir, "page")); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("expected ErrInvalidSource for missing extension, got %v", err)
	}
	if _, err := DecodeFile(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
