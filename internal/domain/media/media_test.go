package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_AllowsMimeType(t *testing.T) {
	cases := []struct {
		kind     Kind
		mimeType string
		allowed  bool
	}{
		{KindImage, "image/jpeg", true},
		{KindImage, "image/png", true},
		{KindImage, "image/webp", true},
		{KindImage, "image/gif", false},
		{KindImage, "video/mp4", false},
		{KindVideo, "video/mp4", true},
		{KindVideo, "video/mpeg", true},
		{KindVideo, "video/quicktime", true},
		{KindVideo, "video/x-msvideo", true},
		{KindVideo, "video/webm", true},
		{KindVideo, "video/x-matroska", true},
		{KindVideo, "video/ogg", false},
		{KindVideo, "image/png", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.kind.AllowsMimeType(tc.mimeType), "%s / %s", tc.kind, tc.mimeType)
	}
}

func TestKind_Limits(t *testing.T) {
	assert.Equal(t, int64(10<<20), KindImage.MaxSizeBytes())
	assert.Equal(t, int64(20<<20), KindVideo.MaxSizeBytes())
}

func TestKind_Plural(t *testing.T) {
	assert.Equal(t, "videos", KindVideo.Plural())
	assert.Equal(t, "images", KindImage.Plural())
}
