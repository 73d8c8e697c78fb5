// Package feedsource fetches OEM S08 feed files from disk or S3.
package feedsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/feed"
)

// DefaultPattern matches S08 feed files.
const DefaultPattern = "*.txt"

var _ feed.Source = (*FileSource)(nil)

// FileSource reads a feed from the local filesystem. With Path set that file
// is read; otherwise the most recently modified file in Dir matching Pattern.
type FileSource struct {
	Path    string
	Dir     string
	Pattern string
}

func (s FileSource) Fetch(ctx context.Context) (feed.Document, error) {
	if err := ctx.Err(); err != nil {
		return feed.Document{}, err
	}

	path := s.Path
	if path == "" {
		latest, err := s.latest()
		if err != nil {
			return feed.Document{}, err
		}
		path = latest
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return feed.Document{}, fmt.Errorf("read feed %s: %w", path, err)
	}
	return feed.Document{Name: filepath.Base(path), Body: body}, nil
}

func (s FileSource) latest() (string, error) {
	pattern := s.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := filepath.Glob(filepath.Join(s.Dir, pattern))
	if err != nil {
		return "", fmt.Errorf("list feeds: %w", err)
	}

	type candidate struct {
		path string
		mod  int64
	}
	var files []candidate
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, candidate{path: m, mod: info.ModTime().UnixNano()})
	}
	if len(files) == 0 {
		return "", apperror.NewNotFound("feed", filepath.Join(s.Dir, pattern))
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].mod != files[j].mod {
			return files[i].mod > files[j].mod
		}
		return files[i].path > files[j].path
	})
	return files[0].path, nil
}
