package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/treedit/internal/logging"
	"github.com/dshills/treedit/internal/renderer/highlight"
	"github.com/dshills/treedit/internal/syntax"
)

// Format is a config file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// Config holds all editor settings.
type Config struct {
	// LogLevel is the minimum level logged: debug, info, warn or error.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// TabWidth is the display width of a tab.
	TabWidth int `toml:"tab_width" yaml:"tab_width"`

	Theme     ThemeConfig               `toml:"theme" yaml:"theme"`
	Highlight HighlightConfig           `toml:"highlight" yaml:"highlight"`
	Languages map[string]LanguageConfig `toml:"languages" yaml:"languages"`
}

// ThemeConfig selects a theme and overrides its colors. Color keys are
// token type names ("keyword", "string.regexp") or raw node kinds; values
// are hex colors.
type ThemeConfig struct {
	Name   string            `toml:"name" yaml:"name"`
	Colors map[string]string `toml:"colors" yaml:"colors"`
}

// HighlightConfig holds highlighter settings shared by all languages.
type HighlightConfig struct {
	// AtomicKinds are added to every grammar's atomic token kinds.
	AtomicKinds []string `toml:"atomic_kinds" yaml:"atomic_kinds"`
}

// LanguageConfig overrides a built-in grammar. Empty lists keep the
// built-in values.
type LanguageConfig struct {
	Extensions  []string `toml:"extensions" yaml:"extensions"`
	AtomicKinds []string `toml:"atomic_kinds" yaml:"atomic_kinds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		TabWidth: 4,
		Theme:    ThemeConfig{Name: "default"},
	}
}

// FormatForPath returns the format selected by the extension of path.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// LoadFile reads the config file at path over the defaults.
func LoadFile(path string) (*Config, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data, format)
}

// Parse decodes data over the defaults. Unknown keys are errors.
func Parse(data []byte, format Format) (*Config, error) {
	return parse("<input>", data, format)
}

func parse(source string, data []byte, format Format) (*Config, error) {
	cfg := Default()

	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			pe := &ParseError{Path: source, Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				pe.Line, pe.Column = derr.Position()
			}
			return nil, pe
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: source, Err: err}
		}
	default:
		return nil, fmt.Errorf("format %d: %w", format, ErrUnsupportedFormat)
	}
	return cfg, nil
}

// Environment variables read by ApplyEnv.
const (
	EnvLogLevel    = "TREEDIT_LOG_LEVEL"
	EnvTabWidth    = "TREEDIT_TAB_WIDTH"
	EnvTheme       = "TREEDIT_THEME"
	EnvAtomicKinds = "TREEDIT_ATOMIC_KINDS" // comma separated
)

// ApplyEnv overrides settings from environment variables. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvTheme); ok {
		c.Theme.Name = v
	}
	if v, ok := lookup(EnvTabWidth); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return &ValidationError{Path: EnvTabWidth, Message: "not an integer", Value: v}
		}
		c.TabWidth = n
	}
	if v, ok := lookup(EnvAtomicKinds); ok {
		c.Highlight.AtomicKinds = nil
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.Highlight.AtomicKinds = append(c.Highlight.AtomicKinds, k)
			}
		}
	}
	return nil
}

// MaxTabWidth is the largest accepted tab width.
const MaxTabWidth = 16

// Validate checks every setting and returns all failures joined. Each
// failure is a *ValidationError.
func (c *Config) Validate() error {
	var errs []error
	fail := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		fail("log_level", "want debug, info, warn or error", c.LogLevel)
	}
	if c.TabWidth < 1 || c.TabWidth > MaxTabWidth {
		fail("tab_width", fmt.Sprintf("want 1 to %d", MaxTabWidth), c.TabWidth)
	}
	if c.Theme.Name == "" {
		fail("theme.name", "must not be empty", c.Theme.Name)
	}
	for _, name := range sortedKeys(c.Theme.Colors) {
		if _, err := highlight.ParseColor(c.Theme.Colors[name]); err != nil {
			fail("theme.colors."+name, "not a hex color", c.Theme.Colors[name])
		}
	}
	checkKinds := func(path string, kinds []string) {
		for _, k := range kinds {
			if strings.TrimSpace(k) == "" {
				fail(path, "empty node kind", k)
			}
		}
	}
	checkKinds("highlight.atomic_kinds", c.Highlight.AtomicKinds)
	for _, name := range sortedKeys(c.Languages) {
		lc := c.Languages[name]
		checkKinds("languages."+name+".atomic_kinds", lc.AtomicKinds)
		for _, ext := range lc.Extensions {
			if strings.TrimSpace(ext) == "" || strings.ContainsAny(ext, `/\`) {
				fail("languages."+name+".extensions", "not a file extension", ext)
			}
		}
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level, or info if it is invalid.
func (c *Config) Level() logging.Level {
	if l, ok := logging.ParseLevel(c.LogLevel); ok {
		return l
	}
	return logging.LevelInfo
}

// ApplyTo configures the grammars of reg: per-language overrides first,
// then the shared atomic kinds are added to every grammar.
func (c *Config) ApplyTo(reg *syntax.Registry) error {
	var errs []error
	for _, name := range sortedKeys(c.Languages) {
		lc := c.Languages[name]
		if err := reg.Configure(name, lc.Extensions, lc.AtomicKinds); err != nil {
			errs = append(errs, err)
		}
	}
	if len(c.Highlight.AtomicKinds) > 0 {
		for _, name := range reg.Names() {
			g, err := reg.Lookup(name)
			if err != nil {
				continue
			}
			kinds := mergeKinds(g.AtomicKinds, c.Highlight.AtomicKinds)
			if err := reg.Configure(name, nil, kinds); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// BuildTheme returns a copy of the configured theme from reg with the
// color overrides applied.
func (c *Config) BuildTheme(reg *highlight.ThemeRegistry) (*highlight.Theme, error) {
	base, ok := reg.Get(c.Theme.Name)
	if !ok {
		return nil, &ValidationError{Path: "theme.name", Message: "unknown theme", Value: c.Theme.Name}
	}
	t := base.Clone()
	for _, name := range sortedKeys(c.Theme.Colors) {
		if err := t.SetColor(name, c.Theme.Colors[name]); err != nil {
			return nil, &ValidationError{Path: "theme.colors." + name, Message: err.Error(), Value: c.Theme.Colors[name]}
		}
	}
	return t, nil
}

func mergeKinds(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, k := range append(append([]string(nil), base...), extra...) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
