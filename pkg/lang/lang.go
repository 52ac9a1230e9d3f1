// Package lang is the table of languages the syntree command knows how to
// parse.
package lang

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yaklabco/syntree/pkg/builder"
	"github.com/yaklabco/syntree/pkg/lang/expr"
	"github.com/yaklabco/syntree/pkg/lang/markdown"
)

// Language describes one parseable language.
type Language struct {
	// Name is the identifier used in configuration and on the command line.
	Name string

	// Extensions are lowercase file extensions with the leading dot.
	Extensions []string

	// Linguist lists the linguist language names that map to this language.
	Linguist []string

	// Definition returns the builder definition.
	Definition func() builder.Definition
}

//nolint:gochecknoglobals // Read-only language table.
var languages = []Language{
	{
		Name:       markdown.Name,
		Extensions: []string{".md", ".markdown", ".mdown", ".mkd"},
		Linguist:   []string{"Markdown"},
		Definition: markdown.Definition,
	},
	{
		Name:       expr.Name,
		Extensions: []string{".expr", ".calc"},
		Definition: expr.Definition,
	},
}

// All returns every language, sorted by name.
func All() []Language {
	out := append([]Language(nil), languages...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted language names.
func Names() []string {
	names := make([]string, 0, len(languages))
	for _, l := range languages {
		names = append(names, l.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a language by name, ignoring case.
func Lookup(name string) (Language, bool) {
	for _, l := range languages {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Language{}, false
}

// MustLookup is Lookup for names that come from validated configuration.
func MustLookup(name string) Language {
	l, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("lang: unknown language %q", name))
	}
	return l
}

// ByExtension finds the language registered for the extension of path.
func ByExtension(path string) (Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return Language{}, false
	}
	for _, l := range languages {
		for _, e := range l.Extensions {
			if e == ext {
				return l, true
			}
		}
	}
	return Language{}, false
}

// ByLinguist finds the language for a linguist language name.
func ByLinguist(name string) (Language, bool) {
	for _, l := range languages {
		for _, n := range l.Linguist {
			if n == name {
				return l, true
			}
		}
	}
	return Language{}, false
}

// Extensions returns the extension table, extension to language name.
func Extensions() map[string]string {
	out := make(map[string]string)
	for _, l := range languages {
		for _, e := range l.Extensions {
			out[e] = l.Name
		}
	}
	return out
}
