package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		url  string
		want string
		err  bool
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1740815725/uploads/ay2av1mwuakrobwzv0vl.png", "uploads/ay2av1mwuakrobwzv0vl", false},
		{"https://res.cloudinary.com/demo/image/upload/uploads/flyer.jpg", "uploads/flyer", false},
		{"https://res.cloudinary.com/demo/raw/upload/v12/docs/minutes-2025.pdf", "docs/minutes-2025", false},
		{"https://res.cloudinary.com/demo/image/upload/v12/valid_name", "valid_name", false},
		{"https://res.cloudinary.com/demo/image/upload/", "", true},
		{"https://example.com/picture.png", "", true},
		{"::not a url", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ExtractPublicID(tt.url)
			if tt.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSniffContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	ct, err := SniffContentType(png)
	assert.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	ct, err = SniffContentType([]byte("%PDF-1.7\n"))
	assert.NoError(t, err)
	assert.Equal(t, "application/pdf", ct)

	_, err = SniffContentType([]byte("<html><script>alert(1)</script></html>"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = SniffContentType([]byte("plain text"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
