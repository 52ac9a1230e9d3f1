package builder

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/syntree/pkg/ast"
	"github.com/yaklabco/syntree/pkg/treediff"
)

// DefaultDepthLimit is the nesting depth beyond which a tree is flagged too
// deep for incremental merging.
const DefaultDepthLimit = 1000

// CustomComparator refines the merge comparator for nodes it cannot settle on
// its own. It is only consulted for non-error nodes that are not plain tokens.
type CustomComparator func(oldNode *ast.Node, newNode LightNode, tree *LightTree) treediff.ThreeState

type settings struct {
	debug      bool
	depthLimit int
	logger     *log.Logger
	comparator CustomComparator
}

// Option configures a Builder.
type Option func(*settings)

// WithDebug enables marker validity checks and allocation stack capture.
func WithDebug(debug bool) Option {
	return func(s *settings) { s.debug = debug }
}

// WithDepthLimit overrides DefaultDepthLimit. Values below 1 are ignored.
func WithDepthLimit(limit int) Option {
	return func(s *settings) {
		if limit > 0 {
			s.depthLimit = limit
		}
	}
}

// WithLogger sets the logger used for usage errors and merge fallbacks.
func WithLogger(logger *log.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithComparator installs a custom merge comparator.
func WithComparator(cmp CustomComparator) Option {
	return func(s *settings) { s.comparator = cmp }
}
