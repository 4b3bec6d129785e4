// internal/cms/manager.go
package cms

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// File types group assets under a per-store folder. Keys always follow
// <store>/<type>/<name>.
const (
	FileTypeImage  = "images"
	FileTypeStatic = "files"
)

type FileInfo struct {
	Name         string    `json:"name"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	URL          string    `json:"url"`
	LastModified time.Time `json:"last_modified,omitempty"`
}

// FileManager is the pluggable static-content store. Implementations must
// stream file bodies rather than buffer them, list past any backend page
// size, and remove folders as a whole prefix.
type FileManager interface {
	Add(storeCode, fileType, name string, body io.Reader, size int64, contentType string) (*FileInfo, error)
	Get(storeCode, fileType, name string) (io.ReadCloser, *FileInfo, error)
	List(storeCode, fileType string) ([]FileInfo, error)
	Remove(storeCode, fileType, name string) error
	RemoveFolder(storeCode, fileType string) error
	URL(storeCode, fileType, name string) string
	PresignGet(storeCode, fileType, name string, expiration time.Duration) (string, error)
}

type UploadRules struct {
	MaxSize      int64
	AllowedTypes []string
}

// RulesFor returns upload constraints by asset category.
func RulesFor(fileType string) UploadRules {
	switch fileType {
	case FileTypeImage:
		return UploadRules{
			MaxSize:      10 * 1024 * 1024, // 10MB
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
		}
	default:
		return UploadRules{
			MaxSize:      5 * 1024 * 1024, // 5MB
			AllowedTypes: []string{".pdf", ".css", ".js", ".txt", ".ico", ".svg"},
		}
	}
}

// ValidateUpload checks size and extension against the rules for fileType.
func ValidateUpload(fileType, name string, size int64) error {
	rules := RulesFor(fileType)

	if rules.MaxSize > 0 && size > rules.MaxSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", size, rules.MaxSize)
	}

	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range rules.AllowedTypes {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("file type %s is not allowed", ext)
}

// UniqueName derives a collision-free object name from an uploaded filename.
// The sanitized base is kept for readability and a random prefix keeps two
// uploads of the same filename from overwriting each other.
func UniqueName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = strings.ToLower(base)

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	cleaned := strings.Trim(b.String(), "-")
	if cleaned == "" {
		cleaned = "file"
	}

	return fmt.Sprintf("%s-%s%s", cleaned, uuid.New().String()[:8], ext)
}

// IsImageData sniffs the first bytes of a file for a known image signature.
func IsImageData(buffer []byte) bool {
	// JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// PNG
	if len(buffer) >= 8 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}

	// GIF
	if len(buffer) >= 6 && (string(buffer[0:6]) == "GIF87a" || string(buffer[0:6]) == "GIF89a") {
		return true
	}

	// WebP: RIFF....WEBP
	if len(buffer) >= 12 && string(buffer[0:4]) == "RIFF" && string(buffer[8:12]) == "WEBP" {
		return true
	}

	return false
}

// objectKey builds the canonical <store>/<type>/<name> key and rejects
// path traversal in any component.
func objectKey(storeCode, fileType, name string) (string, error) {
	for _, part := range []string{storeCode, fileType, name} {
		if part == "" {
			return "", fmt.Errorf("empty key component")
		}
		if strings.Contains(part, "..") || strings.ContainsAny(part, "\\") {
			return "", fmt.Errorf("invalid key component %q", part)
		}
	}
	if strings.Contains(storeCode, "/") || strings.Contains(fileType, "/") || strings.Contains(name, "/") {
		return "", fmt.Errorf("key components must not contain slashes")
	}
	return storeCode + "/" + fileType + "/" + name, nil
}

// folderPrefix is the prefix shared by every object of a store/type pair.
func folderPrefix(storeCode, fileType string) string {
	return storeCode + "/" + fileType + "/"
}
