// Package dir serves invoice PDFs from a local directory. Useful for the
// one-shot CLI and for tests, where Drive credentials are overkill.
package dir

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AlellaGreenTech/Invoice-app/internal/common"
	"github.com/AlellaGreenTech/Invoice-app/internal/source"
)

// Source lists the PDFs directly inside Root, without recursing.
type Source struct {
	Root string
}

func NewSource(root string) *Source {
	return &Source{Root: root}
}

func (s *Source) ListFiles(ctx context.Context) ([]source.SourceFile, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, common.NewAppError("DIR_ACCESS",
			"read directory "+s.Root,
			errors.Join(common.ErrAccess, err))
	}

	var files []source.SourceFile
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, source.SourceFile{
			ID:       e.Name(),
			Name:     e.Name(),
			ByteSize: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (s *Source) Download(ctx context.Context, fileID string) ([]byte, error) {
	// fileID is the basename; reject anything trying to walk out of Root.
	if fileID != filepath.Base(fileID) {
		return nil, common.NewAppError("DIR_DOWNLOAD",
			"invalid file id "+fileID,
			errors.Join(common.ErrDownload, common.ErrInvalidInput))
	}

	data, err := os.ReadFile(filepath.Join(s.Root, fileID))
	if err != nil {
		return nil, common.NewAppError("DIR_DOWNLOAD",
			"read file "+fileID,
			errors.Join(common.ErrDownload, err))
	}
	return data, nil
}
