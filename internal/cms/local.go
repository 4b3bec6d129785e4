// internal/cms/local.go
package cms

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LocalFileManager stores assets on the local filesystem under
// baseDir/<store>/<type>/<name>. It is the development default.
type LocalFileManager struct {
	baseDir string
	baseURL string
}

func NewLocalFileManager(baseDir, baseURL string) (*LocalFileManager, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create CMS base directory: %w", err)
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve CMS base directory: %w", err)
	}

	return &LocalFileManager{
		baseDir: abs,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (m *LocalFileManager) Add(storeCode, fileType, name string, body io.Reader, size int64, contentType string) (*FileInfo, error) {
	key, err := objectKey(storeCode, fileType, name)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(m.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, body)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &FileInfo{
		Name:        name,
		Key:         key,
		Size:        written,
		ContentType: contentType,
		URL:         m.URL(storeCode, fileType, name),
	}, nil
}

func (m *LocalFileManager) Get(storeCode, fileType, name string) (io.ReadCloser, *FileInfo, error) {
	key, err := objectKey(storeCode, fileType, name)
	if err != nil {
		return nil, nil, err
	}

	path := filepath.Join(m.baseDir, filepath.FromSlash(key))
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	info := &FileInfo{
		Name:         name,
		Key:          key,
		Size:         stat.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(name)),
		URL:          m.URL(storeCode, fileType, name),
		LastModified: stat.ModTime(),
	}
	return f, info, nil
}

func (m *LocalFileManager) List(storeCode, fileType string) ([]FileInfo, error) {
	dir := filepath.Join(m.baseDir, storeCode, fileType)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list folder: %w", err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stat, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:         entry.Name(),
			Key:          folderPrefix(storeCode, fileType) + entry.Name(),
			Size:         stat.Size(),
			ContentType:  mime.TypeByExtension(filepath.Ext(entry.Name())),
			URL:          m.URL(storeCode, fileType, entry.Name()),
			LastModified: stat.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (m *LocalFileManager) Remove(storeCode, fileType, name string) error {
	key, err := objectKey(storeCode, fileType, name)
	if err != nil {
		return err
	}

	path := filepath.Join(m.baseDir, filepath.FromSlash(key))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

func (m *LocalFileManager) RemoveFolder(storeCode, fileType string) error {
	if strings.Contains(storeCode, "..") || strings.Contains(fileType, "..") {
		return fmt.Errorf("invalid folder components")
	}

	dir := filepath.Join(m.baseDir, storeCode, fileType)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove folder: %w", err)
	}
	return nil
}

func (m *LocalFileManager) URL(storeCode, fileType, name string) string {
	return fmt.Sprintf("%s/%s/%s/%s", m.baseURL, storeCode, fileType, name)
}

// PresignGet validates the key and returns the plain static URL; local
// assets are served publicly so there is nothing to sign.
func (m *LocalFileManager) PresignGet(storeCode, fileType, name string, _ time.Duration) (string, error) {
	if _, err := objectKey(storeCode, fileType, name); err != nil {
		return "", err
	}
	return m.URL(storeCode, fileType, name), nil
}
