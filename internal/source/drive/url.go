package drive

import (
	"regexp"
	"strings"

	"github.com/AlellaGreenTech/Invoice-app/internal/common"
)

// ResourceType says what kind of Drive object a URL points at.
type ResourceType string

const (
	ResourceFolder  ResourceType = "folder"
	ResourceFile    ResourceType = "file"
	ResourceUnknown ResourceType = "unknown"
)

var (
	folderIDRe = regexp.MustCompile(`/folders/([a-zA-Z0-9_-]+)`)
	fileIDRe   = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)
	queryIDRe  = regexp.MustCompile(`id=([a-zA-Z0-9_-]+)`)
)

// ParseURL extracts the resource type and ID from a Google Drive share URL.
// Supported forms, tried in order:
//
//	https://drive.google.com/drive/folders/<id>
//	https://drive.google.com/file/d/<id>/view
//	https://drive.google.com/open?id=<id>
func ParseURL(rawURL string) (ResourceType, string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", "", common.NewAppError("DRIVE_URL", "url is required", common.ErrInvalidInput)
	}
	if !strings.Contains(rawURL, "drive.google.com") {
		return "", "", common.NewAppError("DRIVE_URL", "url must be from Google Drive", common.ErrInvalidInput)
	}

	if m := folderIDRe.FindStringSubmatch(rawURL); m != nil {
		return ResourceFolder, m[1], nil
	}
	if m := fileIDRe.FindStringSubmatch(rawURL); m != nil {
		return ResourceFile, m[1], nil
	}
	if m := queryIDRe.FindStringSubmatch(rawURL); m != nil {
		return ResourceUnknown, m[1], nil
	}

	return "", "", common.NewAppError("DRIVE_URL", "could not extract resource id from url", common.ErrInvalidInput)
}
