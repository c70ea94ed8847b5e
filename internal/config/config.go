package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tidwall/jsonc"

	"github.com/vango-dev/nanohtml/internal/errors"
	"github.com/vango-dev/nanohtml/pkg/html"
	"github.com/vango-dev/nanohtml/pkg/nano"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "nanohtml.json"

	// DefaultIndent is the default indentation string.
	DefaultIndent = "\t"

	// DefaultEOL is the default line separator.
	DefaultEOL = "\n"

	// DefaultAddress is the default playground server address.
	DefaultAddress = "localhost:8080"

	// DefaultMaxBodyBytes limits request bodies accepted by the server.
	DefaultMaxBodyBytes = 1 << 20
)

// Config represents the complete nanohtml.json configuration.
type Config struct {
	// Indent is written once per nesting level. "" with EOL "" minifies.
	Indent *string `json:"indent,omitempty"`

	// EOL is the line separator.
	EOL *string `json:"eol,omitempty"`

	// Tags overrides parts of the HTML tag configuration.
	Tags TagsConfig `json:"tags,omitempty"`

	// Server contains playground server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Publish contains the object store target for rendered pages.
	Publish PublishConfig `json:"publish,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// TagsConfig overrides the default HTML tag configuration. Empty fields keep
// the defaults.
type TagsConfig struct {
	// Default is the tag used when none is given.
	Default string `json:"default,omitempty"`

	// NonEmpty replaces the tags closed explicitly when empty.
	NonEmpty []string `json:"nonEmpty,omitempty"`

	// AttrTrue is written as the value of true attributes.
	AttrTrue *string `json:"attrTrue,omitempty"`

	// RawText replaces the tags whose text is written unescaped.
	RawText []string `json:"rawText,omitempty"`

	// Shortcuts adds or replaces shortcut symbols. An empty attribute
	// removes the symbol.
	Shortcuts map[string]string `json:"shortcuts,omitempty"`

	// Children adds or replaces implied child tags. An empty child removes
	// the container.
	Children map[string]string `json:"children,omitempty"`
}

// ServerConfig contains playground server settings.
type ServerConfig struct {
	// Address is the host:port to listen on.
	Address string `json:"address,omitempty"`

	// Metrics enables the /metrics endpoint (default: true).
	Metrics *bool `json:"metrics,omitempty"`

	// MaxBodyBytes limits the size of request bodies.
	MaxBodyBytes int64 `json:"maxBodyBytes,omitempty"`
}

// PublishConfig contains settings for publishing rendered pages.
type PublishConfig struct {
	// Bucket is the target S3 bucket.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region of the bucket.
	Region string `json:"region,omitempty"`

	// Profile names the shared AWS config profile to use.
	Profile string `json:"profile,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty"`

	// PathStyle addresses the bucket in the path instead of the host.
	PathStyle bool `json:"pathStyle,omitempty"`

	// CacheControl is set on every uploaded object.
	CacheControl string `json:"cacheControl,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	indent, eol := DefaultIndent, DefaultEOL
	metrics := true
	return &Config{
		Indent: &indent,
		EOL:    &eol,
		Server: ServerConfig{
			Address:      DefaultAddress,
			Metrics:      &metrics,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Publish: PublishConfig{
			CacheControl: "public, max-age=300",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for nanohtml.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path. Comments and
// trailing commas are allowed.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("N040").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'nanohtml init' to create one")
		}
		return nil, errors.New("N041").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return nil, errors.New("N041").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Discover loads the configuration of the project containing startDir.
// Without a configuration file the defaults are returned.
func Discover(startDir string) (*Config, error) {
	root, err := FindProjectRoot(startDir)
	if err != nil {
		if errors.Is(err, "N040") {
			return New(), nil
		}
		return nil, err
	}
	return Load(root)
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("N043").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("N043").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Indent == nil {
		indent := DefaultIndent
		c.Indent = &indent
	}
	if c.EOL == nil {
		eol := DefaultEOL
		c.EOL = &eol
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.Metrics == nil {
		metrics := true
		c.Server.Metrics = &metrics
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.IndentString()) != "" {
		return invalid("indent", "Indent may only contain spaces and tabs")
	}
	if strings.Trim(c.EOLString(), "\r\n") != "" {
		return invalid("eol", "EOL may only contain \\r and \\n")
	}

	if c.Tags.Default != "" && !isTagName(c.Tags.Default) {
		return invalid("tags.default", "Tag names may contain letters, digits, '-' and ':'")
	}
	for symbol, attr := range c.Tags.Shortcuts {
		r, size := utf8.DecodeRuneInString(symbol)
		if size == 0 || size != len(symbol) || isTagRune(r) || strings.ContainsRune("$!", r) {
			return invalid("tags.shortcuts", "Shortcut "+symbol+" must be a single symbol character")
		}
		if attr != "" && !isTagName(attr) {
			return invalid("tags.shortcuts", "Invalid attribute name "+attr)
		}
	}
	for parent, child := range c.Tags.Children {
		if !isTagName(parent) || (child != "" && !isTagName(child)) {
			return invalid("tags.children", "Invalid child mapping "+parent+" -> "+child)
		}
	}

	if c.Server.MaxBodyBytes < 0 {
		return invalid("server.maxBodyBytes", "maxBodyBytes must not be negative")
	}
	if strings.HasPrefix(c.Publish.Prefix, "/") {
		return invalid("publish.prefix", "Object key prefixes must not start with '/'")
	}
	return nil
}

func invalid(field, detail string) error {
	return errors.New("N042").
		WithDetail(field + ": " + detail).
		WithContext([]string{field})
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == ':' || r == '_'
}

func isTagName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isTagRune(r) {
			return false
		}
	}
	return true
}

// IndentString returns the configured indentation.
func (c *Config) IndentString() string {
	if c.Indent == nil {
		return DefaultIndent
	}
	return *c.Indent
}

// EOLString returns the configured line separator.
func (c *Config) EOLString() string {
	if c.EOL == nil {
		return DefaultEOL
	}
	return *c.EOL
}

// MetricsEnabled reports whether the server exposes /metrics.
func (c *Config) MetricsEnabled() bool {
	return c.Server.Metrics == nil || *c.Server.Metrics
}

// HTMLTags returns a new HTML tag configuration with the overrides applied.
// The caller owns the result.
func (c *Config) HTMLTags() *html.Tags {
	t := &c.Tags
	tags := html.NewTags()
	if t.Default != "" {
		tags.Default = t.Default
	}
	if t.NonEmpty != nil {
		tags.NonEmptyTags = append([]string(nil), t.NonEmpty...)
	}
	if t.AttrTrue != nil {
		tags.AttrTrue = *t.AttrTrue
	}
	if t.RawText != nil {
		tags.RawTextTags = append([]string(nil), t.RawText...)
	}

	symbols := make([]string, 0, len(t.Shortcuts))
	for symbol := range t.Shortcuts {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	for _, symbol := range symbols {
		r, _ := utf8.DecodeRuneInString(symbol)
		tags.Shortcuts = setShortcut(tags.Shortcuts, r, t.Shortcuts[symbol])
	}

	for parent, child := range t.Children {
		if child == "" {
			delete(tags.Children, parent)
			continue
		}
		tags.Children[parent] = child
	}
	return tags
}

func setShortcut(list []nano.Shortcut, symbol rune, attr string) []nano.Shortcut {
	for i, sc := range list {
		if sc.Symbol != symbol {
			continue
		}
		if attr == "" {
			return append(list[:i], list[i+1:]...)
		}
		list[i].Attr = attr
		return list
	}
	if attr == "" {
		return list
	}
	return append(list, nano.Shortcut{Symbol: symbol, Attr: attr})
}

// TransformerOptions returns the options that build a transformer matching
// the configuration.
func (c *Config) TransformerOptions() []html.Option {
	return []html.Option{
		html.WithIndent(c.IndentString()),
		html.WithEOL(c.EOLString()),
		html.WithTags(c.HTMLTags()),
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing nanohtml.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("N040").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'nanohtml init' to create one")
		}
		dir = parent
	}
}
