package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yaklabco/syntree/pkg/langdetect"
)

// Discover finds parseable files under opts.Paths. Files named explicitly are
// always kept unless excluded; files found by walking a directory are kept
// when their path maps to a known language. The result is sorted and holds
// absolute paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	w := walker{
		ctx:      ctx,
		opts:     opts,
		workDir:  workDir,
		detector: opts.detector(),
		seen:     make(map[string]struct{}),
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if info.IsDir() {
			if err := w.walk(abs); err != nil {
				return nil, err
			}
			continue
		}
		// Files named explicitly skip the vendored heuristics.
		if !w.ignored(w.rel(abs)) {
			w.add(abs)
		}
	}

	sort.Strings(w.files)
	return w.files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

type walker struct {
	ctx      context.Context //nolint:containedctx // Scoped to one Discover call.
	opts     Options
	workDir  string
	root     string
	detector langdetect.Detector
	seen     map[string]struct{}
	files    []string
}

func (w *walker) add(path string) {
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.files = append(w.files, path)
}

// rel returns path relative to the working directory, slash separated.
func (w *walker) rel(path string) string {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// excluded applies the vendored heuristics relative to the directory being
// walked and the exclude globs relative to the working directory.
func (w *walker) excluded(path string, dir bool) bool {
	vendorPath, err := filepath.Rel(w.root, path)
	if err != nil {
		vendorPath = path
	}
	vendorPath = filepath.ToSlash(vendorPath)
	if dir {
		vendorPath += "/"
	}
	if !w.opts.IncludeVendored && langdetect.IsVendored(vendorPath) {
		return true
	}
	return w.ignored(w.rel(path))
}

// ignored reports whether rel matches one of the exclude globs.
func (w *walker) ignored(rel string) bool {
	for _, pattern := range w.opts.ExcludeGlobs {
		if matchGlob(rel, pattern) {
			return true
		}
	}
	return false
}

func (w *walker) walk(root string) error {
	w.root = root
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || (path != root && w.excluded(path, true)) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !w.opts.FollowSymlinks {
					return nil
				}
				// Walk the target: WalkDir does not follow a symlinked root.
				return w.walk(target)
			}
		}

		if w.excluded(path, false) {
			return nil
		}
		if _, ok := w.detector.Detect(path, nil); ok {
			w.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// matchGlob matches a slash separated relative path against a glob pattern.
// A "**" segment matches any number of path segments. A pattern without a
// slash is also tried against the base name.
func matchGlob(rel, pattern string) bool {
	pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
	if matchSegments(strings.Split(rel, "/"), strings.Split(pattern, "/")) {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, err := path.Match(pattern, path.Base(rel))
		return err == nil && ok
	}
	return false
}

func matchSegments(segments, pattern []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(segments); i++ {
				if matchSegments(segments[i:], rest) {
					return true
				}
			}
			return false
		}
		if len(segments) == 0 {
			return false
		}
		ok, err := path.Match(pattern[0], segments[0])
		if err != nil || !ok {
			return false
		}
		segments, pattern = segments[1:], pattern[1:]
	}
	return len(segments) == 0
}
