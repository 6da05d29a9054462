package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	tests := []struct {
		title string
		want  string
	}{
		{"Moonlit", "moonlit"},
		{"The Star & The Moon!", "the-star-the-moon"},
		{"  --Hello__World--  ", "hello-world"},
		{"🌟🌙", "1700000000123"},
		{"", "1700000000123"},
		{"Café 2", "caf-2"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeFileName(tt.title, now))
		})
	}
}

func TestCoverObjectPath(t *testing.T) {
	assert.Equal(t, "public/moonlit.png", CoverObjectPath("moonlit", "image/png"))
	assert.Equal(t, "public/moonlit.webp", CoverObjectPath("moonlit", "image/webp"))
	assert.Equal(t, "public/moonlit.png", CoverObjectPath("moonlit", "application/octet-stream"))
}

func TestDetectCoverMimeType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	assert.Equal(t, "image/webp", DetectCoverMimeType("image/webp", nil))
	assert.Equal(t, "image/jpeg", DetectCoverMimeType("image/jpeg; charset=binary", nil))
	assert.Equal(t, "image/png", DetectCoverMimeType("application/octet-stream", png))
	assert.Equal(t, "image/png", DetectCoverMimeType("text/plain", []byte("not an image")))
	assert.Equal(t, "image/png", DetectCoverMimeType("", nil))
}
