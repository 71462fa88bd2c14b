package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFixture(t *testing.T) {
	dir := CopyFixture(t, "hello-service")

	for _, name := range []string{"serverless.yml", "handler.py", "requirements.txt", "bye.js"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestWriteZip(t *testing.T) {
	path := WriteZip(t, t.TempDir(), "dist/svc.zip", map[string]string{"b.py": "B", "a.py": "A"})

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	require.Len(t, r.File, 2)
	assert.Equal(t, "a.py", r.File[0].Name)
	assert.Equal(t, "b.py", r.File[1].Name)
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, t.TempDir(), "nested/file.txt", "content")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}
