package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlellaGreenTech/Invoice-app/internal/common"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantType ResourceType
		wantID   string
	}{
		{
			"folder url",
			"https://drive.google.com/drive/folders/1a2b3c4d5e6f7g8h9i0j",
			ResourceFolder, "1a2b3c4d5e6f7g8h9i0j",
		},
		{
			"folder url with query suffix",
			"https://drive.google.com/drive/folders/1a2b3c4d?usp=sharing",
			ResourceFolder, "1a2b3c4d",
		},
		{
			"file url",
			"https://drive.google.com/file/d/1a2b3c4d5e6f7g8h9i0j/view",
			ResourceFile, "1a2b3c4d5e6f7g8h9i0j",
		},
		{
			"open with id param",
			"https://drive.google.com/open?id=1a2b3c4d",
			ResourceUnknown, "1a2b3c4d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, id, err := ParseURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, typ)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestParseURLRejectsBadInput(t *testing.T) {
	for _, url := range []string{
		"",
		"https://example.com/folders/abc",
		"https://drive.google.com/drive/my-drive",
	} {
		_, _, err := ParseURL(url)
		assert.ErrorIs(t, err, common.ErrInvalidInput, "url %q", url)
	}
}
