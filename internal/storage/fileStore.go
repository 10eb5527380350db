package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

// FileStore keeps the uploaded originals. The key returned by Put is what the
// rest of the system knows the document by - it doubles as the base of the
// vector namespace.
type FileStore interface {
	Put(ctx context.Context, fileName string, content io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	LocalPath(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type LocalStore struct {
	dir    string
	logger *logger_i.Logger
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = config.DocumentStoreDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating document store dir: %w", err)
	}
	return &LocalStore{dir: dir, logger: logger_i.NewLogger("file_store")}, nil
}

// Put stores the content under a timestamped key so two uploads of the same
// file never collide.
func (s *LocalStore) Put(ctx context.Context, fileName string, content io.Reader) (string, error) {
	key := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFileName(fileName))

	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		s.logger.Error("Error creating document file", "error", err.Error())
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		s.logger.Error("Error writing document file", "error", err.Error())
		return "", err
	}
	return key, nil
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.LocalPath(ctx, key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

func (s *LocalStore) LocalPath(ctx context.Context, key string) (string, error) {
	//keys are flat, anything with a path separator is not ours
	if key == "" || key != filepath.Base(key) {
		return "", fmt.Errorf("invalid document key: %q", key)
	}
	path := filepath.Join(s.dir, key)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("document %q not found: %w", key, err)
	}
	return path, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	path, err := s.LocalPath(ctx, key)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

func sanitizeFileName(fileName string) string {
	name := filepath.Base(fileName)
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
