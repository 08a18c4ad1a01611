package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parseapp/docpreview/internal/core/domain"
)

// chunkSize keeps memory flat regardless of upload size.
const chunkSize = 1 << 20

type Storage struct {
	basePath string
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

func (s *Storage) Path(key string) string {
	return filepath.Join(s.basePath, key)
}

// Save streams data to disk in fixed-size chunks, enforcing maxBytes as
// the bytes arrive. On any failure the partially written file is removed
// before the error propagates, so a rejected upload leaves no artifact.
func (s *Storage) Save(ctx context.Context, key string, data io.Reader, maxBytes int64) (int64, error) {
	path := s.Path(key)
	f, err := os.Create(path)
	if err != nil {
		return 0, domain.WrapError(domain.ErrStorage, "create file", err)
	}

	var written int64
	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return 0, s.abort(f, path, domain.WrapError(domain.ErrStorage, "stream upload", err))
		}

		n, readErr := data.Read(buf)
		if n > 0 {
			written += int64(n)
			if maxBytes > 0 && written > maxBytes {
				return 0, s.abort(f, path, domain.WrapError(
					domain.ErrPayloadTooLarge,
					"stream upload",
					fmt.Errorf("exceeds maximum of %d bytes", maxBytes),
				))
			}
			if _, err := f.Write(buf[:n]); err != nil {
				return 0, s.abort(f, path, domain.WrapError(domain.ErrStorage, "write chunk", err))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return 0, s.abort(f, path, domain.WrapError(domain.ErrStorage, "read upload stream", readErr))
		}
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return 0, domain.WrapError(domain.ErrStorage, "close file", err)
	}
	return written, nil
}

func (s *Storage) Remove(_ context.Context, key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.WrapError(domain.ErrStorage, "remove file", err)
	}
	return nil
}

func (s *Storage) abort(f *os.File, path string, err error) error {
	_ = f.Close()
	_ = os.Remove(path)
	return err
}
