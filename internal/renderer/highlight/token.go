package highlight

import "strings"

// TokenType is the semantic category of a syntax node kind. Themes style
// categories; kinds without a theme entry of their own fall back to the
// style of their category.
type TokenType uint16

// Token types for syntax highlighting.
const (
	TokenNone TokenType = iota

	TokenComment
	TokenString
	TokenStringRegexp
	TokenStringEscape
	TokenNumber
	TokenConstantLanguage // true, false, nil, null

	TokenKeyword
	TokenOperator
	TokenPunctuation

	TokenIdentifier
	TokenProperty
	TokenFunction
	TokenTypeName
	TokenTag
	TokenAttribute

	TokenInvalid

	tokenTypeCount
)

// String returns the string representation of a token type.
func (t TokenType) String() string {
	if t < tokenTypeCount {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// IsComment returns true if this is a comment token.
func (t TokenType) IsComment() bool {
	return t == TokenComment
}

// IsString returns true if this is a string-like token.
func (t TokenType) IsString() bool {
	return t >= TokenString && t <= TokenStringEscape
}

var tokenTypeNames = [tokenTypeCount]string{
	TokenNone:             "none",
	TokenComment:          "comment",
	TokenString:           "string",
	TokenStringRegexp:     "string.regexp",
	TokenStringEscape:     "string.escape",
	TokenNumber:           "number",
	TokenConstantLanguage: "constant.language",
	TokenKeyword:          "keyword",
	TokenOperator:         "operator",
	TokenPunctuation:      "punctuation",
	TokenIdentifier:       "identifier",
	TokenProperty:         "property",
	TokenFunction:         "function",
	TokenTypeName:         "type",
	TokenTag:              "tag",
	TokenAttribute:        "attribute",
	TokenInvalid:          "invalid",
}

// TokenTypeFromString returns the token type with the given name, or
// TokenNone.
func TokenTypeFromString(name string) TokenType {
	for i, n := range tokenTypeNames {
		if n == name {
			return TokenType(i)
		}
	}
	return TokenNone
}

var keywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "default": true, "break": true,
	"continue": true, "return": true, "function": true, "func": true,
	"fn": true, "def": true, "class": true, "struct": true, "enum": true,
	"interface": true, "type": true, "var": true, "let": true, "const": true,
	"import": true, "export": true, "from": true, "package": true,
	"new": true, "delete": true, "typeof": true, "instanceof": true,
	"in": true, "of": true, "try": true, "catch": true, "finally": true,
	"throw": true, "async": true, "await": true, "yield": true, "go": true,
	"defer": true, "select": true, "chan": true, "map": true, "range": true,
	"impl": true, "pub": true, "mod": true, "use": true, "match": true,
	"local": true, "then": true, "end": true, "elif": true, "pass": true,
	"lambda": true, "with": true, "as": true, "static": true, "extends": true,
}

var constants = map[string]bool{
	"true": true, "false": true, "null": true, "nil": true, "none": true,
	"undefined": true, "this": true, "self": true,
}

// ClassifyKind maps a tree-sitter node kind to a token type. Named kinds
// are matched by their naming conventions across grammars; anonymous kinds
// (the literal token text) by keyword and punctuation tables.
func ClassifyKind(kind string) TokenType {
	k := strings.ToLower(kind)
	switch {
	case k == "":
		return TokenNone
	case k == "error" || strings.Contains(k, "invalid"):
		return TokenInvalid
	case strings.Contains(k, "comment"):
		return TokenComment
	case strings.Contains(k, "regex"):
		return TokenStringRegexp
	case strings.Contains(k, "escape"):
		return TokenStringEscape
	case strings.Contains(k, "string") || strings.Contains(k, "char") ||
		strings.Contains(k, "heredoc") || strings.HasSuffix(k, "_scalar") ||
		k == "rune_literal" || k == "raw_text":
		return TokenString
	case strings.Contains(k, "number") || strings.Contains(k, "integer") ||
		strings.Contains(k, "float") || strings.Contains(k, "numeric") ||
		k == "int_literal" || k == "imaginary_literal":
		return TokenNumber
	case constants[k]:
		return TokenConstantLanguage
	case keywords[k] || strings.HasSuffix(k, "keyword"):
		return TokenKeyword
	case strings.Contains(k, "type_identifier") || strings.Contains(k, "primitive_type") ||
		strings.Contains(k, "predefined_type") || k == "type":
		return TokenTypeName
	case strings.Contains(k, "property") || strings.Contains(k, "field_identifier"):
		return TokenProperty
	case strings.Contains(k, "function") || strings.Contains(k, "method"):
		return TokenFunction
	case k == "tag_name":
		return TokenTag
	case k == "attribute_name":
		return TokenAttribute
	case strings.HasSuffix(k, "identifier") || strings.HasSuffix(k, "name"):
		return TokenIdentifier
	case isPunctuation(k):
		return TokenPunctuation
	case isOperator(k):
		return TokenOperator
	}
	return TokenNone
}

func isPunctuation(k string) bool {
	switch k {
	case "(", ")", "[", "]", "{", "}", ",", ";", ".", ":", "${":
		return true
	}
	return false
}

func isOperator(k string) bool {
	if k == "" {
		return false
	}
	for _, r := range k {
		if !strings.ContainsRune("+-*/%=<>!&|^~?@", r) {
			return false
		}
	}
	return true
}
