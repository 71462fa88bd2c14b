// Package artifact resolves the handler source and dependency manifest of a
// function from either a packaged zip archive or the service directory.
package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kubeless/serverless-deploy/internal/output"
)

// Source reads function artifacts by relative path.
type Source interface {
	// ReadText returns the text content stored at relPath.
	ReadText(ctx context.Context, relPath string) (string, error)

	// Location describes where artifacts are read from, for messages.
	Location() string
}

// NewSource selects the artifact source for a run: the package archive when
// packagePath is set, otherwise the service directory (default ".").
func NewSource(packagePath, servicePath string, cache *ArchiveCache) Source {
	if packagePath != "" {
		if cache == nil {
			cache = NewArchiveCache()
		}
		return &ArchiveSource{path: packagePath, cache: cache}
	}
	if servicePath == "" {
		servicePath = "."
	}
	return &DirSource{root: servicePath}
}

// ArchiveSource reads artifacts from a zip package. The package is parsed
// once per distinct content through the shared ArchiveCache.
type ArchiveSource struct {
	path  string
	cache *ArchiveCache
}

// ReadText implements Source.
func (s *ArchiveSource) ReadText(ctx context.Context, relPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("reading package %s: %w", s.path, err)
	}

	archive, err := s.cache.Load(data)
	if err != nil {
		return "", fmt.Errorf("loading package %s: %w", s.path, err)
	}
	output.Debug("reading from package", "path", relPath, "package", s.path, "digest", archive.Digest())

	return archive.ReadText(relPath)
}

// Location implements Source.
func (s *ArchiveSource) Location() string {
	return "package " + s.path
}

// DirSource reads artifacts from a directory tree.
type DirSource struct {
	root string
}

// ReadText implements Source.
func (s *DirSource) ReadText(ctx context.Context, relPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(s.root, relPath))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Location implements Source.
func (s *DirSource) Location() string {
	return "directory " + s.root
}
