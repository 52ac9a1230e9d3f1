package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode used when none is given.
const DefaultFileMode os.FileMode = 0o644

// WriteAtomic replaces path with content by renaming a sibling temp file over
// it. Readers see either the old or the new content, never a mix. On error
// path is left untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	tmpPath, err := writeTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*", content, mode)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// writeTemp writes content to a new synced file in dir and returns its path.
// The file is removed again if any step fails.
func writeTemp(dir, pattern string, content []byte, mode os.FileMode) (string, error) {
	tmp, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()

	step, err := "write", writeAndSync(tmp, content)
	if err == nil {
		step, err = "close", tmp.Close()
	} else {
		_ = tmp.Close()
	}
	if err == nil {
		step, err = "chmod", os.Chmod(name, mode)
	}
	if err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("%s temp file: %w", step, err)
	}
	return name, nil
}

func writeAndSync(f *os.File, content []byte) error {
	if _, err := f.Write(content); err != nil {
		return err
	}
	return f.Sync()
}
