// Package config loads editor settings.
//
// Settings come from three sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file (LoadFile), chosen by extension
//  3. TREEDIT_* environment variables (ApplyEnv)
//
// A loaded Config is applied to the grammar registry with ApplyTo, which
// sets per-language extensions and atomic token kinds, and to a theme
// registry with BuildTheme. The watcher subpackage reloads a config file
// when it changes on disk.
//
// Example file:
//
//	log_level = "debug"
//	tab_width = 8
//
//	[theme]
//	name = "monokai"
//	colors = { comment = "#888888", keyword = "#ff5f87" }
//
//	[highlight]
//	atomic_kinds = ["heredoc_body"]
//
//	[languages.javascript]
//	extensions = [".js", ".es6"]
//	atomic_kinds = ["string", "comment", "template_string"]
package config
