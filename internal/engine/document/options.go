package document

import "github.com/dshills/treedit/internal/logging"

// DefaultTabWidth is the tab width used when none is configured.
const DefaultTabWidth = 4

// Option configures a Document during creation.
type Option func(*Document)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *logging.Logger) Option {
	return func(d *Document) {
		d.logger = logging.OrNull(l)
	}
}

// WithTabWidth sets the display width of a tab.
func WithTabWidth(width int) Option {
	return func(d *Document) {
		if width > 0 {
			d.tabWidth = width
		}
	}
}

// WithAtomicKinds overrides the grammar's atomic token kinds.
func WithAtomicKinds(kinds []string) Option {
	return func(d *Document) {
		d.atomicKinds = append([]string(nil), kinds...)
	}
}
