// Package langdetect picks the language a file should be parsed as.
// It uses go-enry for linguist extension data and binary detection, and
// falls back to content patterns for files without a useful extension.
package langdetect

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/syntree/pkg/lang"
)

// Detector resolves languages for paths.
type Detector struct {
	// Overrides maps extensions to language names and wins over everything
	// else. Unknown language names are ignored.
	Overrides map[string]string
}

// Detect returns the language for path. Content may be nil, in which case
// only the path is used.
func (d Detector) Detect(path string, content []byte) (lang.Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))

	// Strategy 1: configured overrides.
	for key, name := range d.Overrides {
		if !strings.HasPrefix(key, ".") {
			key = "." + key
		}
		if ext != "" && strings.EqualFold(key, ext) {
			if l, ok := lang.Lookup(name); ok {
				return l, true
			}
		}
	}

	// Strategy 2: our own extension table.
	if l, ok := lang.ByExtension(path); ok {
		return l, true
	}

	// Strategy 3: linguist extension data.
	if ext != "" {
		for _, name := range enry.GetLanguagesByExtension(path, content, nil) {
			if l, ok := lang.ByLinguist(name); ok {
				return l, true
			}
		}
	}

	if len(content) == 0 || enry.IsBinary(content) {
		return lang.Language{}, false
	}

	// Strategy 4: content patterns.
	return detectByPattern(content)
}

// Detect uses a Detector without overrides.
func Detect(path string, content []byte) (lang.Language, bool) {
	return Detector{}.Detect(path, content)
}

// IsVendored reports whether path looks like vendored or third-party code.
func IsVendored(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}

//nolint:gochecknoglobals // Compiled once.
var (
	atxHeading  = regexp.MustCompile(`(?m)^#{1,6} \S`)
	fenceLine   = regexp.MustCompile("(?m)^(```|~~~)")
	listItem    = regexp.MustCompile(`(?m)^([-*+]|\d+[.)]) \S`)
	letBinding  = regexp.MustCompile(`(?m)^\s*let\s+[A-Za-z_]\w*\s*=`)
	exprPattern = regexp.MustCompile(`^[\w\s.+\-*/=(),;>]*$`)
)

// detectByPattern checks for patterns that are highly indicative of one of
// the known languages.
func detectByPattern(content []byte) (lang.Language, bool) {
	if l, ok := detectExpr(content); ok {
		return l, true
	}
	if l, ok := detectMarkdown(content); ok {
		return l, true
	}
	return lang.Language{}, false
}

// detectExpr matches texts made only of expression characters with at least
// one let binding. Comment lines are ignored.
func detectExpr(content []byte) (lang.Language, bool) {
	if !letBinding.Match(content) {
		return lang.Language{}, false
	}
	for line := range bytes.Lines(content) {
		if i := bytes.Index(line, []byte("//")); i >= 0 {
			line = line[:i]
		}
		if !exprPattern.Match(bytes.TrimRight(line, "\r\n")) {
			return lang.Language{}, false
		}
	}
	return lang.Lookup("expr")
}

// detectMarkdown counts block level markers and needs two of them.
func detectMarkdown(content []byte) (lang.Language, bool) {
	score := len(atxHeading.FindAll(content, 2)) +
		len(fenceLine.FindAll(content, 2)) +
		len(listItem.FindAll(content, 2))
	if score < 2 {
		return lang.Language{}, false
	}
	return lang.Lookup("markdown")
}
