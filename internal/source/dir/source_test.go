package dir

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlellaGreenTech/Invoice-app/internal/common"
)

func TestListFilesFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.pdf"), []byte("bb"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.PDF"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub.pdf"), 0o755))

	s := NewSource(root)
	files, err := s.ListFiles(context.Background())
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "a.PDF", files[0].Name)
	assert.Equal(t, "b.pdf", files[1].Name)
	assert.Equal(t, int64(1), files[0].ByteSize)
}

func TestListFilesMissingDir(t *testing.T) {
	s := NewSource(filepath.Join(t.TempDir(), "nope"))
	_, err := s.ListFiles(context.Background())
	assert.ErrorIs(t, err, common.ErrAccess)
}

func TestDownload(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "inv.pdf"), []byte("%PDF-1.4"), 0o644))

	s := NewSource(root)
	data, err := s.Download(context.Background(), "inv.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)

	_, err = s.Download(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, common.ErrDownload)

	_, err = s.Download(context.Background(), "../inv.pdf")
	assert.ErrorIs(t, err, common.ErrDownload)
}
