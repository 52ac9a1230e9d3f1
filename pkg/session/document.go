// Package session keeps a parsed document up to date as its text changes,
// merging each new parse into the existing tree.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/yaklabco/syntree/internal/logging"
	"github.com/yaklabco/syntree/pkg/ast"
	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/textedit"
)

// Document is a text and its tree. It is safe for concurrent use.
type Document struct {
	def         builder.Definition
	opts        []builder.Option
	incremental bool

	mu      sync.Mutex
	text    string
	tree    *ast.Node
	version int
}

// Option configures a Document.
type Option func(*Document)

// WithBuilderOptions passes opts to every parse.
func WithBuilderOptions(opts ...builder.Option) Option {
	return func(d *Document) {
		d.opts = append(d.opts, opts...)
	}
}

// WithIncremental selects between merging into the old tree (the default)
// and replacing it with a fresh parse.
func WithIncremental(enabled bool) Option {
	return func(d *Document) {
		d.incremental = enabled
	}
}

// Update describes one change to a document.
type Update struct {
	// Version counts the updates applied so far, this one included.
	Version int

	Before string
	After  string

	// Result is the outcome of the reparse. Result.Tree is the document
	// tree after the update.
	Result builder.Result
}

// Open parses text with def.
func Open(def builder.Definition, text string, opts ...Option) (*Document, error) {
	d := &Document{def: def, incremental: true}
	for _, opt := range opts {
		opt(d)
	}

	tree, err := builder.Parse(def, text, d.opts...)
	if err != nil {
		return nil, fmt.Errorf("open %s document: %w", def.Name, err)
	}
	d.text, d.tree = text, tree
	return d, nil
}

// Text returns the current text.
func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

// Tree returns the current tree. An incremental update patches this tree
// in place, so callers must not read it while an update runs.
func (d *Document) Tree() *ast.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tree
}

// Version returns the number of updates applied.
func (d *Document) Version() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// Replace reparses the document with text.
func (d *Document) Replace(ctx context.Context, text string) (Update, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.replaceLocked(ctx, text)
}

// Edit applies edits to the current text and reparses it. Offsets refer to
// the text before any of the edits.
func (d *Document) Edit(ctx context.Context, edits ...textedit.Edit) (Update, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	text, err := textedit.Apply(d.text, edits)
	if err != nil {
		return Update{}, fmt.Errorf("edit %s document: %w", d.def.Name, err)
	}
	return d.replaceLocked(ctx, text)
}

func (d *Document) replaceLocked(ctx context.Context, text string) (Update, error) {
	var (
		result builder.Result
		err    error
	)
	if d.incremental {
		result, err = builder.Reparse(ctx, d.def, d.tree, text, d.opts...)
	} else {
		result.Tree, err = builder.Parse(d.def, text, d.opts...)
	}
	if err != nil {
		return Update{}, fmt.Errorf("update %s document: %w", d.def.Name, err)
	}

	update := Update{Version: d.version + 1, Before: d.text, After: text, Result: result}
	d.text, d.tree, d.version = text, result.Tree, update.Version

	edits := 0
	if result.Script != nil {
		edits = result.Script.Len()
	}
	logging.FromContext(ctx).Debug("document updated",
		logging.FieldLanguage, d.def.Name,
		logging.FieldEdits, edits,
		logging.FieldIncremental, result.Incremental,
		logging.FieldVersion, update.Version,
	)
	return update, nil
}
