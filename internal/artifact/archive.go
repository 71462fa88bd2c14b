package artifact

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/klauspost/compress/zip"
	"github.com/mholt/archiver/v3"
)

// ErrEntryNotFound is returned when an archive has no entry at the requested path.
var ErrEntryNotFound = errors.New("entry not found in archive")

// Archive is a parsed package archive. It is read-only once built.
type Archive struct {
	digest  string
	entries map[string]string
}

// Digest returns the content digest the archive was parsed from.
func (a *Archive) Digest() string {
	return a.digest
}

// ReadText returns the text of the entry stored at relPath.
func (a *Archive) ReadText(relPath string) (string, error) {
	content, ok := a.entries[cleanEntryName(relPath)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrEntryNotFound, relPath)
	}
	return content, nil
}

// ArchiveCache memoizes parsed archives by content digest for the duration
// of one deployment run. Create one per run; do not share across runs.
type ArchiveCache struct {
	mu       sync.Mutex
	archives map[string]*Archive
	parses   int
}

// NewArchiveCache creates an empty cache.
func NewArchiveCache() *ArchiveCache {
	return &ArchiveCache{archives: make(map[string]*Archive)}
}

// Load returns the parsed archive for data, parsing it only the first time
// a given content digest is seen.
func (c *ArchiveCache) Load(data []byte) (*Archive, error) {
	digest := contentDigest(data)

	c.mu.Lock()
	defer c.mu.Unlock()

	if a, ok := c.archives[digest]; ok {
		return a, nil
	}

	c.parses++
	a, err := parseZip(data)
	if err != nil {
		return nil, err
	}
	a.digest = digest
	c.archives[digest] = a

	return a, nil
}

// Parses returns how many times the cache has parsed an archive.
func (c *ArchiveCache) Parses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parses
}

// parseZip reads every regular file of a zip archive into memory.
func parseZip(data []byte) (*Archive, error) {
	z := archiver.NewZip()
	if err := z.Open(bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("opening zip archive: %w", err)
	}
	defer z.Close() //nolint:errcheck

	entries := make(map[string]string)
	for {
		f, err := z.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading zip archive: %w", err)
		}

		name := f.Name()
		if header, ok := f.Header.(zip.FileHeader); ok {
			name = header.Name
		}

		if f.IsDir() {
			_ = f.Close()
			continue
		}

		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading zip entry %s: %w", name, err)
		}

		entries[cleanEntryName(name)] = string(content)
	}

	return &Archive{entries: entries}, nil
}

// cleanEntryName normalizes an entry name so "./handler.py", "/handler.py"
// and "handler.py" address the same entry.
func cleanEntryName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// contentDigest returns "sha256:<hex>" for data.
func contentDigest(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}
