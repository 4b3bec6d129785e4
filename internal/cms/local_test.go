// internal/cms/local_test.go
package cms

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *LocalFileManager {
	t.Helper()
	m, err := NewLocalFileManager(t.TempDir(), "http://localhost:8080/static")
	require.NoError(t, err)
	return m
}

func TestLocalFileManagerRoundTrip(t *testing.T) {
	m := newTestManager(t)
	content := "body { color: red; }"

	info, err := m.Add("DEFAULT", FileTypeStatic, "style.css", strings.NewReader(content), int64(len(content)), "text/css")
	require.NoError(t, err)
	assert.Equal(t, "DEFAULT/files/style.css", info.Key)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, "http://localhost:8080/static/DEFAULT/files/style.css", info.URL)

	body, got, err := m.Get("DEFAULT", FileTypeStatic, "style.css")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
	assert.Equal(t, int64(len(content)), got.Size)
}

func TestLocalFileManagerList(t *testing.T) {
	m := newTestManager(t)

	for _, name := range []string{"b.txt", "a.txt"} {
		_, err := m.Add("DEFAULT", FileTypeStatic, name, strings.NewReader("x"), 1, "text/plain")
		require.NoError(t, err)
	}

	files, err := m.List("DEFAULT", FileTypeStatic)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].Name)
	assert.Equal(t, "b.txt", files[1].Name)

	// Listing a folder that was never written is not an error
	empty, err := m.List("DEFAULT", FileTypeImage)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLocalFileManagerRemove(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Add("DEFAULT", FileTypeStatic, "doomed.txt", strings.NewReader("x"), 1, "text/plain")
	require.NoError(t, err)

	require.NoError(t, m.Remove("DEFAULT", FileTypeStatic, "doomed.txt"))

	_, _, err = m.Get("DEFAULT", FileTypeStatic, "doomed.txt")
	assert.Error(t, err)

	// Removing again is idempotent
	assert.NoError(t, m.Remove("DEFAULT", FileTypeStatic, "doomed.txt"))
}

func TestLocalFileManagerRemoveFolder(t *testing.T) {
	m := newTestManager(t)

	for _, name := range []string{"one.txt", "two.txt"} {
		_, err := m.Add("DEFAULT", FileTypeStatic, name, strings.NewReader("x"), 1, "text/plain")
		require.NoError(t, err)
	}

	require.NoError(t, m.RemoveFolder("DEFAULT", FileTypeStatic))

	files, err := m.List("DEFAULT", FileTypeStatic)
	require.NoError(t, err)
	assert.Empty(t, files)

	assert.Error(t, m.RemoveFolder("..", FileTypeStatic))
}

func TestLocalFileManagerRejectsTraversal(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Add("DEFAULT", FileTypeStatic, "../../etc/passwd", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)

	_, _, err = m.Get("DEFAULT", "..", "passwd")
	assert.Error(t, err)
}

func TestLocalFileManagerPresignGet(t *testing.T) {
	m := newTestManager(t)

	url, err := m.PresignGet("DEFAULT", FileTypeImage, "photo.jpg", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/static/DEFAULT/images/photo.jpg", url)

	_, err = m.PresignGet("DEFAULT", FileTypeImage, "../photo.jpg", 15*time.Minute)
	assert.Error(t, err)
}
