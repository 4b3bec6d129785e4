// internal/cms/manager_test.go
package cms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload(FileTypeImage, "photo.jpg", 1024))
	assert.NoError(t, ValidateUpload(FileTypeImage, "PHOTO.PNG", 1024))
	assert.NoError(t, ValidateUpload(FileTypeStatic, "terms.pdf", 1024))

	// Wrong extension for the category
	assert.Error(t, ValidateUpload(FileTypeImage, "terms.pdf", 1024))
	assert.Error(t, ValidateUpload(FileTypeStatic, "photo.jpg", 1024))
	assert.Error(t, ValidateUpload(FileTypeImage, "noextension", 1024))

	// Over size limit
	assert.Error(t, ValidateUpload(FileTypeImage, "photo.jpg", 11*1024*1024))
	assert.Error(t, ValidateUpload(FileTypeStatic, "terms.pdf", 6*1024*1024))
}

func TestIsImageData(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00, 0x01}
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}
	gif := []byte("GIF89a......")
	webp := []byte("RIFF....WEBP")

	assert.True(t, IsImageData(jpeg))
	assert.True(t, IsImageData(png))
	assert.True(t, IsImageData(gif))
	assert.True(t, IsImageData(webp))

	assert.False(t, IsImageData([]byte("<!DOCTYPE html>")))
	assert.False(t, IsImageData([]byte{0x00, 0x01}))
	assert.False(t, IsImageData(nil))
}

func TestObjectKey(t *testing.T) {
	key, err := objectKey("DEFAULT", FileTypeImage, "photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "DEFAULT/images/photo.jpg", key)

	_, err = objectKey("DEFAULT", FileTypeImage, "../secrets.txt")
	assert.Error(t, err)

	_, err = objectKey("DEFAULT", FileTypeImage, "sub/photo.jpg")
	assert.Error(t, err)

	_, err = objectKey("..", FileTypeImage, "photo.jpg")
	assert.Error(t, err)

	_, err = objectKey("DEFAULT", FileTypeImage, "")
	assert.Error(t, err)
}

func TestUniqueName(t *testing.T) {
	first := UniqueName("Summer Photo.JPG")
	second := UniqueName("Summer Photo.JPG")

	// Two uploads of the same filename must not collide.
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "summer-photo-"))
	assert.True(t, strings.HasSuffix(first, ".jpg"))

	_, err := objectKey("DEFAULT", FileTypeImage, first)
	require.NoError(t, err)

	// Hostile or empty basenames still produce a usable key.
	assert.True(t, strings.HasPrefix(UniqueName("../../etc/passwd.png"), "passwd-"))
	assert.True(t, strings.HasPrefix(UniqueName("???.png"), "file-"))
}
