package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// LocalStorage writes uploads to disk under Dir. Files are served back by
// the router's static /uploads route, so the returned URLs are permanent
type LocalStorage struct {
	Dir     string
	BaseURL string
}

func NewLocal(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory, %w", err)
	}

	return &LocalStorage{
		Dir:     dir,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (l *LocalStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	dst := path.Join(l.Dir, key)
	if err := os.MkdirAll(path.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload subdirectory, %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file, %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to write upload file, %w", err)
	}

	return l.BaseURL + "/uploads/" + key, nil
}
