package highlight

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme defines colors and styles for syntax highlighting.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	// Background is the editor background color.
	Background tcell.Color

	// Foreground is the default text color.
	Foreground tcell.Color

	// TokenStyles maps token types to their styles.
	TokenStyles map[TokenType]tcell.Style

	// KindStyles maps raw node kinds to styles. They take precedence over
	// the token type the kind classifies as.
	KindStyles map[string]tcell.Style
}

// DefaultStyle returns the style used for plain text and unmapped kinds.
func (t *Theme) DefaultStyle() tcell.Style {
	return tcell.StyleDefault.Foreground(t.Foreground).Background(t.Background)
}

// StyleForToken returns the style for a given token type.
func (t *Theme) StyleForToken(tokenType TokenType) tcell.Style {
	if style, ok := t.TokenStyles[tokenType]; ok {
		return style
	}
	return t.DefaultStyle()
}

// StyleForKind returns the style for a node kind. The empty kind is plain
// text.
func (t *Theme) StyleForKind(kind string) tcell.Style {
	if kind == "" {
		return t.DefaultStyle()
	}
	if style, ok := t.KindStyles[kind]; ok {
		return style
	}
	return t.StyleForToken(ClassifyKind(kind))
}

// SetColor sets the foreground of a token type or node kind from a hex
// color. Names that are token type names ("keyword", "string.regexp")
// address the token type; anything else is treated as a node kind.
func (t *Theme) SetColor(name, hex string) error {
	c, err := ParseColor(hex)
	if err != nil {
		return err
	}
	style := t.DefaultStyle().Foreground(c)
	if tt := TokenTypeFromString(name); tt != TokenNone {
		if t.TokenStyles == nil {
			t.TokenStyles = make(map[TokenType]tcell.Style)
		}
		t.TokenStyles[tt] = style
		return nil
	}
	if t.KindStyles == nil {
		t.KindStyles = make(map[string]tcell.Style)
	}
	t.KindStyles[name] = style
	return nil
}

// Clone returns a deep copy of the theme.
func (t *Theme) Clone() *Theme {
	c := *t
	c.TokenStyles = make(map[TokenType]tcell.Style, len(t.TokenStyles))
	for k, v := range t.TokenStyles {
		c.TokenStyles[k] = v
	}
	c.KindStyles = make(map[string]tcell.Style, len(t.KindStyles))
	for k, v := range t.KindStyles {
		c.KindStyles[k] = v
	}
	return &c
}

// ParseColor parses a "#rrggbb" or "#rgb" hex color.
func ParseColor(hex string) (tcell.Color, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("parse color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
}

// palette describes a theme by hex colors; entries are foregrounds unless
// marked with a trailing "+b" (bold) or "+i" (italic).
type palette struct {
	name       string
	background string
	foreground string
	tokens     map[TokenType]string
}

func (p palette) build() *Theme {
	bg := mustColor(p.background)
	fg := mustColor(p.foreground)
	t := &Theme{
		Name:        p.name,
		Background:  bg,
		Foreground:  fg,
		TokenStyles: make(map[TokenType]tcell.Style, len(p.tokens)),
		KindStyles:  make(map[string]tcell.Style),
	}
	for tt, def := range p.tokens {
		hex, attrs, _ := strings.Cut(def, "+")
		style := tcell.StyleDefault.Background(bg).Foreground(mustColor(hex))
		if strings.Contains(attrs, "b") {
			style = style.Bold(true)
		}
		if strings.Contains(attrs, "i") {
			style = style.Italic(true)
		}
		t.TokenStyles[tt] = style
	}
	return t
}

func mustColor(hex string) tcell.Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultTheme returns the default dark theme.
func DefaultTheme() *Theme {
	return palette{
		name:       "default",
		background: "#1e1e1e",
		foreground: "#d4d4d4",
		tokens: map[TokenType]string{
			TokenComment:          "#6a9955+i",
			TokenString:           "#ce9178",
			TokenStringRegexp:     "#d16969",
			TokenStringEscape:     "#d7ba7d",
			TokenNumber:           "#b5cea8",
			TokenConstantLanguage: "#569cd6",
			TokenKeyword:          "#569cd6+b",
			TokenOperator:         "#d4d4d4",
			TokenPunctuation:      "#808080",
			TokenIdentifier:       "#9cdcfe",
			TokenProperty:         "#9cdcfe",
			TokenFunction:         "#dcdcaa",
			TokenTypeName:         "#4ec9b0",
			TokenTag:              "#569cd6",
			TokenAttribute:        "#9cdcfe",
			TokenInvalid:          "#f44747+b",
		},
	}.build()
}

// MonokaiTheme returns the Monokai theme.
func MonokaiTheme() *Theme {
	return palette{
		name:       "monokai",
		background: "#272822",
		foreground: "#f8f8f2",
		tokens: map[TokenType]string{
			TokenComment:          "#75715e+i",
			TokenString:           "#e6db74",
			TokenStringRegexp:     "#e6db74",
			TokenStringEscape:     "#ae81ff",
			TokenNumber:           "#ae81ff",
			TokenConstantLanguage: "#ae81ff",
			TokenKeyword:          "#f92672",
			TokenOperator:         "#f92672",
			TokenIdentifier:       "#f8f8f2",
			TokenProperty:         "#f8f8f2",
			TokenFunction:         "#a6e22e",
			TokenTypeName:         "#66d9ef+i",
			TokenTag:              "#f92672",
			TokenAttribute:        "#a6e22e",
			TokenInvalid:          "#f8f8f0+b",
		},
	}.build()
}

// DraculaTheme returns the Dracula theme.
func DraculaTheme() *Theme {
	return palette{
		name:       "dracula",
		background: "#282a36",
		foreground: "#f8f8f2",
		tokens: map[TokenType]string{
			TokenComment:          "#6272a4",
			TokenString:           "#f1fa8c",
			TokenStringRegexp:     "#ff5555",
			TokenStringEscape:     "#ff79c6",
			TokenNumber:           "#bd93f9",
			TokenConstantLanguage: "#bd93f9",
			TokenKeyword:          "#ff79c6",
			TokenOperator:         "#ff79c6",
			TokenFunction:         "#50fa7b",
			TokenTypeName:         "#8be9fd+i",
			TokenTag:              "#ff79c6",
			TokenAttribute:        "#50fa7b+i",
			TokenInvalid:          "#ff5555",
		},
	}.build()
}

// SolarizedDarkTheme returns the Solarized Dark theme.
func SolarizedDarkTheme() *Theme {
	return palette{
		name:       "solarized-dark",
		background: "#002b36",
		foreground: "#839496",
		tokens: map[TokenType]string{
			TokenComment:          "#586e75+i",
			TokenString:           "#2aa198",
			TokenStringRegexp:     "#dc322f",
			TokenStringEscape:     "#cb4b16",
			TokenNumber:           "#d33682",
			TokenConstantLanguage: "#cb4b16",
			TokenKeyword:          "#859900",
			TokenOperator:         "#859900",
			TokenFunction:         "#268bd2",
			TokenTypeName:         "#b58900",
			TokenTag:              "#268bd2",
			TokenAttribute:        "#93a1a1",
			TokenInvalid:          "#dc322f+b",
		},
	}.build()
}

// LightTheme returns a light theme.
func LightTheme() *Theme {
	return palette{
		name:       "light",
		background: "#ffffff",
		foreground: "#000000",
		tokens: map[TokenType]string{
			TokenComment:          "#008000+i",
			TokenString:           "#a31515",
			TokenStringRegexp:     "#811f3f",
			TokenStringEscape:     "#ee0000",
			TokenNumber:           "#098658",
			TokenConstantLanguage: "#0000ff",
			TokenKeyword:          "#0000ff",
			TokenFunction:         "#795e26",
			TokenTypeName:         "#267f99",
			TokenProperty:         "#001080",
			TokenTag:              "#800000",
			TokenAttribute:        "#e50000",
			TokenInvalid:          "#cd3131+b",
		},
	}.build()
}

// ThemeRegistry manages available themes.
type ThemeRegistry struct {
	mu      sync.RWMutex
	themes  map[string]*Theme
	current string
}

// NewThemeRegistry creates a registry holding the built-in themes, with
// "default" selected.
func NewThemeRegistry() *ThemeRegistry {
	r := &ThemeRegistry{
		themes:  make(map[string]*Theme),
		current: "default",
	}
	for _, t := range []*Theme{
		DefaultTheme(),
		MonokaiTheme(),
		DraculaTheme(),
		SolarizedDarkTheme(),
		LightTheme(),
	} {
		r.themes[t.Name] = t
	}
	return r
}

// Register adds or replaces a theme.
func (r *ThemeRegistry) Register(theme *Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes[theme.Name] = theme
}

// Get returns a theme by name.
func (r *ThemeRegistry) Get(name string) (*Theme, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.themes[name]
	return t, ok
}

// Current returns the selected theme.
func (r *ThemeRegistry) Current() *Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.themes[r.current]
}

// SetCurrent selects a theme by name. It returns false if no theme has
// that name.
func (r *ThemeRegistry) SetCurrent(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.themes[name]; !ok {
		return false
	}
	r.current = name
	return true
}

// Names returns the registered theme names, sorted.
func (r *ThemeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
