package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"
)

func atomic(extra ...string) []string {
	kinds := make([]string, 0, len(DefaultAtomicKinds)+len(extra))
	kinds = append(kinds, DefaultAtomicKinds...)
	return append(kinds, extra...)
}

func builtin(name string, lang *sitter.Language, exts []string, kinds []string) *Grammar {
	return &Grammar{Name: name, Language: lang, Extensions: exts, AtomicKinds: kinds}
}

func builtinGrammars() []*Grammar {
	return []*Grammar{
		builtin("javascript", javascript.GetLanguage(),
			[]string{".js", ".jsx", ".mjs", ".cjs"},
			atomic("template_string", "regex")),
		builtin("typescript", typescript.GetLanguage(),
			[]string{".ts", ".mts", ".cts"},
			atomic("template_string", "regex")),
		builtin("tsx", tsx.GetLanguage(),
			[]string{".tsx"},
			atomic("template_string", "regex")),
		builtin("go", golang.GetLanguage(),
			[]string{".go"},
			atomic("interpreted_string_literal", "raw_string_literal", "rune_literal")),
		builtin("python", python.GetLanguage(),
			[]string{".py", ".pyi"},
			atomic()),
		builtin("rust", rust.GetLanguage(),
			[]string{".rs"},
			atomic("string_literal", "raw_string_literal", "char_literal", "line_comment", "block_comment")),
		builtin("c", c.GetLanguage(),
			[]string{".c", ".h"},
			atomic("string_literal", "char_literal", "system_lib_string")),
		builtin("cpp", cpp.GetLanguage(),
			[]string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
			atomic("string_literal", "raw_string_literal", "char_literal", "system_lib_string")),
		builtin("bash", bash.GetLanguage(),
			[]string{".sh", ".bash", ".zsh"},
			atomic("raw_string", "heredoc_body")),
		builtin("yaml", yaml.GetLanguage(),
			[]string{".yaml", ".yml"},
			atomic("double_quote_scalar", "single_quote_scalar", "block_scalar")),
		builtin("toml", toml.GetLanguage(),
			[]string{".toml"},
			atomic()),
		builtin("css", css.GetLanguage(),
			[]string{".css"},
			atomic("string_value")),
		builtin("html", html.GetLanguage(),
			[]string{".html", ".htm"},
			atomic("quoted_attribute_value", "raw_text")),
		builtin("lua", lua.GetLanguage(),
			[]string{".lua"},
			atomic()),
	}
}
