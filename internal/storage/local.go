package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// LocalStorage serves schedule files from a directory tree.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a store rooted at basePath. An empty basePath
// resolves object paths against the working directory.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath != "" {
		info, err := os.Stat(basePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open base directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("base path %s is not a directory", basePath)
		}
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Locate returns the filesystem path of an object.
func (l *LocalStorage) Locate(objectPath string) string {
	if l.basePath == "" || filepath.IsAbs(objectPath) {
		return objectPath
	}
	return filepath.Join(l.basePath, objectPath)
}

// Download copies an object to localPath.
func (l *LocalStorage) Download(ctx context.Context, objectPath, localPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := os.Open(l.Locate(objectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	dst, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	return nil
}

// Exists checks if an object exists in local storage.
func (l *LocalStorage) Exists(ctx context.Context, objectPath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	info, err := os.Stat(l.Locate(objectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ListObjects returns all file paths under the given prefix, relative to
// the base directory and sorted.
func (l *LocalStorage) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := l.basePath
	if root == "" {
		root = "."
	}
	var objects []string
	err := filepath.Walk(l.Locate(prefix), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil // prefix doesn't exist, return empty list
			}
			return err
		}
		if !info.IsDir() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			objects = append(objects, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(objects)
	return objects, nil
}
