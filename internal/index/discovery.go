package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxScanDepth bounds how deep LoadDir descends below its root
const maxScanDepth = 5

// DictionaryExt is the extension LoadDir picks up
const DictionaryExt = ".tsv"

// LoadPath loads a dictionary file, or every dictionary below a directory
func (idx *Index) LoadPath(ctx context.Context, path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open dictionary: %w", err)
	}
	if !info.IsDir() {
		if err := idx.LoadFile(path); err != nil {
			return 0, err
		}
		return 1, nil
	}
	return idx.LoadDir(ctx, path)
}

// LoadDir walks root for dictionary files and loads each one. Files that
// fail to parse are logged and skipped. Returns how many were loaded.
func (idx *Index) LoadDir(ctx context.Context, root string) (int, error) {
	loaded := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Skip on error
		if err != nil {
			idx.logger.Warn("error walking path", "path", path, "err", err)
			return nil
		}

		if d.IsDir() {
			relPath, _ := filepath.Rel(root, path)
			depth := strings.Count(relPath, string(filepath.Separator))
			if depth >= maxScanDepth {
				return filepath.SkipDir
			}
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), DictionaryExt) {
			return nil
		}
		if err := idx.LoadFile(path); err != nil {
			idx.logger.Error("skipping dictionary", "err", err)
			return nil
		}
		loaded++
		return nil
	})

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return loaded, err
		}
		return loaded, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	idx.logger.Debug("dictionaries scanned", "root", root, "files", loaded, "words", idx.Len())
	return loaded, nil
}
