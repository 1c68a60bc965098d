package highlight

import "testing"

func TestTokenTypeString(t *testing.T) {
	for tt := TokenNone; tt < tokenTypeCount; tt++ {
		name := tt.String()
		if name == "" || name == "unknown" {
			t.Errorf("token type %d has no name", tt)
		}
		if got := TokenTypeFromString(name); got != tt {
			t.Errorf("TokenTypeFromString(%q) = %v, want %v", name, got, tt)
		}
	}
	if got := TokenType(999).String(); got != "unknown" {
		t.Errorf("out of range String() = %q", got)
	}
	if got := TokenTypeFromString("nope"); got != TokenNone {
		t.Errorf("TokenTypeFromString(nope) = %v", got)
	}
}

func TestClassifyKind(t *testing.T) {
	tests := []struct {
		kind string
		want TokenType
	}{
		{"", TokenNone},
		{"comment", TokenComment},
		{"line_comment", TokenComment},
		{"block_comment", TokenComment},
		{"string", TokenString},
		{"template_string", TokenString},
		{"interpreted_string_literal", TokenString},
		{"raw_string_literal", TokenString},
		{"char_literal", TokenString},
		{"regex", TokenStringRegexp},
		{"escape_sequence", TokenStringEscape},
		{"number", TokenNumber},
		{"int_literal", TokenNumber},
		{"integer", TokenNumber},
		{"float_literal", TokenNumber},
		{"true", TokenConstantLanguage},
		{"nil", TokenConstantLanguage},
		{"const", TokenKeyword},
		{"func", TokenKeyword},
		{"return", TokenKeyword},
		{"type_identifier", TokenTypeName},
		{"primitive_type", TokenTypeName},
		{"property_identifier", TokenProperty},
		{"field_identifier", TokenProperty},
		{"function_declaration", TokenFunction},
		{"identifier", TokenIdentifier},
		{"tag_name", TokenTag},
		{"attribute_name", TokenAttribute},
		{"ERROR", TokenInvalid},
		{"(", TokenPunctuation},
		{";", TokenPunctuation},
		{"=", TokenOperator},
		{"===", TokenOperator},
		{"&&", TokenOperator},
		{"program", TokenNone},
	}
	for _, tt := range tests {
		if got := ClassifyKind(tt.kind); got != tt.want {
			t.Errorf("ClassifyKind(%q) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestTokenTypeCategories(t *testing.T) {
	if !TokenComment.IsComment() || TokenString.IsComment() {
		t.Error("IsComment misclassifies")
	}
	for _, tt := range []TokenType{TokenString, TokenStringRegexp, TokenStringEscape} {
		if !tt.IsString() {
			t.Errorf("%v should be a string type", tt)
		}
	}
	if TokenNumber.IsString() || TokenComment.IsString() {
		t.Error("IsString misclassifies")
	}
}
