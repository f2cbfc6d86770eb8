// Package source abstracts where invoice PDFs come from. A batch run only
// needs to enumerate files and download their bytes; everything else is the
// pipeline's business.
package source

import "context"

// SourceFile is one candidate PDF discovered in a source.
type SourceFile struct {
	ID       string
	Name     string
	ByteSize int64
}

// Source enumerates and fetches invoice PDFs.
//
// ListFiles failures wrap common.ErrAccess; Download failures wrap
// common.ErrDownload so the orchestrator can tell a dead source from a
// single bad file.
type Source interface {
	ListFiles(ctx context.Context) ([]SourceFile, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
}
