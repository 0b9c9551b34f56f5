package backup

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/speakboard/internal/codec"
)

// Saver is the file-save collaborator: it stores a finished document under
// the suggested name.
type Saver interface {
	Save(ctx context.Context, name string, data []byte) error
}

// Reader is the file-read collaborator: it supplies the text of a document
// chosen by the operator.
type Reader interface {
	Read(ctx context.Context) ([]byte, error)
}

// DirSaver writes backups into a directory.
type DirSaver struct {
	Dir string

	// Path is set to the location of the last successful Save.
	Path string
}

// Save writes data to Dir/name atomically: a temp file in the same
// directory is written, synced, and renamed over the target.
func (s *DirSaver) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("creating backup dir: %w", err)
	}
	path := filepath.Join(s.Dir, filepath.Base(name))
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	s.Path = path
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".backup-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing backup: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// FileReader reads a backup from a path on disk.
type FileReader struct {
	Path string
}

func (r FileReader) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}
	return data, nil
}

// StreamReader reads a backup from an io.Reader such as an upload body.
// When Limit is positive a longer stream fails with types.ErrTooLarge.
type StreamReader struct {
	R     io.Reader
	Limit int64
}

func (r StreamReader) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := codec.ReadLimited(r.R, r.Limit)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}
	return data, nil
}

// BufferSaver keeps the last saved document in memory.
type BufferSaver struct {
	Name string
	Data []byte
}

func (s *BufferSaver) Save(_ context.Context, name string, data []byte) error {
	s.Name = name
	s.Data = data
	return nil
}
