package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/nanohtml/internal/errors"
	"github.com/vango-dev/nanohtml/pkg/html"
	"github.com/vango-dev/nanohtml/pkg/nano"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.IndentString() != DefaultIndent {
		t.Errorf("Indent = %q, want %q", cfg.IndentString(), DefaultIndent)
	}
	if cfg.EOLString() != DefaultEOL {
		t.Errorf("EOL = %q, want %q", cfg.EOLString(), DefaultEOL)
	}
	if cfg.Server.Address != DefaultAddress {
		t.Errorf("Server.Address = %q, want %q", cfg.Server.Address, DefaultAddress)
	}
	if !cfg.MetricsEnabled() {
		t.Error("metrics should be enabled by default")
	}
	if diff := cmp.Diff(html.DefaultHTML5Tags, cfg.HTMLTags()); diff != "" {
		t.Errorf("HTMLTags() without overrides (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestHTMLTagsIsACopy(t *testing.T) {
	cfg := New()

	first := cfg.HTMLTags()
	if first == html.DefaultHTML5Tags {
		t.Fatal("HTMLTags() returned the shared default record")
	}
	first.Default = "section"
	first.NonEmptyTags = append(first.NonEmptyTags, "custom")
	first.Children["ul"] = "div"

	if html.DefaultHTML5Tags.Default != "p" {
		t.Errorf("DefaultHTML5Tags.Default = %q after editing a copy", html.DefaultHTML5Tags.Default)
	}
	if diff := cmp.Diff(html.NewTags(), cfg.HTMLTags()); diff != "" {
		t.Errorf("second HTMLTags() affected by edits (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(html.NewTags(), html.DefaultHTML5Tags); diff != "" {
		t.Errorf("DefaultHTML5Tags changed (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if !errors.Is(err, "N040") {
		t.Errorf("expected N040 for missing config, got %v", err)
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	configJSON := `{
  // minified output
  "indent": "",
  "eol": "",
  "server": {
    "address": "0.0.0.0:9000",
    "metrics": false,
  },
  "publish": {
    "bucket": "site",
    "prefix": "pages/",
    "region": "eu-central-1",
  },
}
`
	if err := os.WriteFile(configPath, []byte(configJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.IndentString() != "" || cfg.EOLString() != "" {
		t.Errorf("layout = %q %q, want empty", cfg.IndentString(), cfg.EOLString())
	}
	if cfg.Server.Address != "0.0.0.0:9000" {
		t.Errorf("Server.Address = %q", cfg.Server.Address)
	}
	if cfg.MetricsEnabled() {
		t.Error("metrics should be disabled")
	}
	if cfg.Server.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Errorf("MaxBodyBytes = %d, want default", cfg.Server.MaxBodyBytes)
	}
	if cfg.Publish.Bucket != "site" || cfg.Publish.Prefix != "pages/" || cfg.Publish.Region != "eu-central-1" {
		t.Errorf("Publish = %+v", cfg.Publish)
	}
	if cfg.Publish.CacheControl == "" {
		t.Error("CacheControl default should survive loading")
	}
	if cfg.Path() != configPath || cfg.Dir() != tmpDir {
		t.Errorf("Path() = %q, Dir() = %q", cfg.Path(), cfg.Dir())
	}
}

func TestLoadDefaultsWhenFieldsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(`{"server": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.IndentString() != DefaultIndent || cfg.EOLString() != DefaultEOL {
		t.Errorf("layout = %q %q", cfg.IndentString(), cfg.EOLString())
	}
	if cfg.Server.Address != DefaultAddress || !cfg.MetricsEnabled() {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(`{"indent": 4}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if !errors.Is(err, "N041") {
		t.Errorf("expected N041, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	two := "  "
	cfg.Indent = &two
	cfg.Tags.Default = "div"
	cfg.Tags.Children = map[string]string{"menu": "li"}
	cfg.Publish.Bucket = "site"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Error("saved file should end with a newline")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	opts := cmp.AllowUnexported(Config{})
	if diff := cmp.Diff(cfg, loaded, opts); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}

	loaded.Publish.Prefix = "v2/"
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	again, err := Load(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if again.Publish.Prefix != "v2/" {
		t.Errorf("Prefix = %q after Save", again.Publish.Prefix)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Error("expected error saving a config without a path")
	}
}

func TestValidate(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"spaces indent", func(c *Config) { c.Indent = str("    ") }, false},
		{"letters in indent", func(c *Config) { c.Indent = str("ab") }, true},
		{"crlf eol", func(c *Config) { c.EOL = str("\r\n") }, false},
		{"text eol", func(c *Config) { c.EOL = str("<br>") }, true},
		{"custom default tag", func(c *Config) { c.Tags.Default = "x-item" }, false},
		{"bad default tag", func(c *Config) { c.Tags.Default = "p class" }, true},
		{"new shortcut", func(c *Config) { c.Tags.Shortcuts = map[string]string{"@": "name"} }, false},
		{"remove shortcut", func(c *Config) { c.Tags.Shortcuts = map[string]string{"#": ""} }, false},
		{"letter shortcut", func(c *Config) { c.Tags.Shortcuts = map[string]string{"a": "href"} }, true},
		{"long shortcut", func(c *Config) { c.Tags.Shortcuts = map[string]string{"@@": "name"} }, true},
		{"attribute prefix shortcut", func(c *Config) { c.Tags.Shortcuts = map[string]string{"$": "x"} }, true},
		{"bad child", func(c *Config) { c.Tags.Children = map[string]string{"menu": "l i"} }, true},
		{"negative body limit", func(c *Config) { c.Server.MaxBodyBytes = -1 }, true},
		{"absolute prefix", func(c *Config) { c.Publish.Prefix = "/pages" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, "N042") {
				t.Errorf("expected N042, got %v", err)
			}
		})
	}
}

func TestHTMLTagsOverrides(t *testing.T) {
	attrTrue := "true"
	cfg := New()
	cfg.Tags = TagsConfig{
		Default:   "div",
		NonEmpty:  []string{"script", "style", "textarea"},
		AttrTrue:  &attrTrue,
		Shortcuts: map[string]string{"#": "", "@": "name", ".": "class"},
		Children:  map[string]string{"menu": "li", "select": ""},
	}

	tags := cfg.HTMLTags()
	if tags == html.DefaultHTML5Tags {
		t.Fatal("overrides must not modify the default record")
	}
	if tags.Default != "div" || tags.AttrTrue != "true" {
		t.Errorf("Default = %q, AttrTrue = %q", tags.Default, tags.AttrTrue)
	}
	if tags.SelfClosed("textarea") != "></textarea>" {
		t.Errorf("SelfClosed(textarea) = %q", tags.SelfClosed("textarea"))
	}

	want := []nano.Shortcut{{Symbol: '.', Attr: "class"}, {Symbol: '@', Attr: "name"}}
	if diff := cmp.Diff(want, tags.Shortcuts); diff != "" {
		t.Errorf("Shortcuts mismatch (-want +got):\n%s", diff)
	}
	if tags.ChildTag("menu") != "li" || tags.ChildTag("select") != "" || tags.ChildTag("ul") != "li" {
		t.Errorf("Children = %v", tags.Children)
	}

	if html.DefaultHTML5Tags.Default != "p" || html.DefaultHTML5Tags.ChildTag("select") != "option" {
		t.Error("default record was modified")
	}
}

func TestTransformerOptions(t *testing.T) {
	cfg := New()
	empty := ""
	cfg.Indent, cfg.EOL = &empty, &empty
	cfg.Tags.Shortcuts = map[string]string{"@": "name"}

	tr := html.NewTransformer(cfg.TransformerOptions()...)
	got, err := tr.Encode(context.Background(), nano.Obj("input@email#f.wide", true))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := `<input id="f" class="wide" name="email">`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := FindProjectRoot(nested); !errors.Is(err, "N040") {
		t.Errorf("expected N040 without config, got %v", err)
	}
	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover without config: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Discover without config should return defaults, got path %q", cfg.Path())
	}

	if err := New().SaveTo(filepath.Join(root, ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	if got != root {
		t.Errorf("FindProjectRoot() = %q, want %q", got, root)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists() mismatch")
	}

	cfg, err = Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Dir() != root {
		t.Errorf("Discover().Dir() = %q, want %q", cfg.Dir(), root)
	}
}
