package syntax

import (
	"errors"
	"fmt"
)

// Errors returned by syntax operations.
var (
	// ErrGrammar indicates a grammar that cannot be attached: it is
	// missing, empty, or rejected by the parser.
	ErrGrammar = errors.New("grammar unavailable")

	// ErrParseFailure indicates the parser returned no tree.
	ErrParseFailure = errors.New("parse failed")

	// ErrUnknownGrammar indicates a registry lookup for a name or
	// extension with no registered grammar.
	ErrUnknownGrammar = errors.New("unknown grammar")
)

// GrammarError describes why a grammar could not be attached.
// It matches ErrGrammar.
type GrammarError struct {
	Name   string
	Reason string
}

func (e *GrammarError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("syntax: grammar: %s", e.Reason)
	}
	return fmt.Sprintf("syntax: grammar %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrGrammar.
func (e *GrammarError) Unwrap() error {
	return ErrGrammar
}

// ParseFailure reports a failed parser invocation. The previous tree is
// kept when this is returned. It matches ErrParseFailure.
type ParseFailure struct {
	Grammar     string
	Incremental bool
	Err         error
}

func (e *ParseFailure) Error() string {
	mode := "full"
	if e.Incremental {
		mode = "incremental"
	}
	if e.Err != nil {
		return fmt.Sprintf("syntax: %s parse with %q failed: %v", mode, e.Grammar, e.Err)
	}
	return fmt.Sprintf("syntax: %s parse with %q returned no tree", mode, e.Grammar)
}

// Is reports whether target is ErrParseFailure.
func (e *ParseFailure) Is(target error) bool {
	return target == ErrParseFailure
}

// Unwrap returns the underlying parser error, if any.
func (e *ParseFailure) Unwrap() error {
	return e.Err
}
