package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go-bank-ledger/logger"

	"github.com/sirupsen/logrus"
)

// FileBlobStore keeps each blob as a file under Dir.
type FileBlobStore struct {
	Dir string
}

func NewFileBlobStore(dir string) *FileBlobStore {
	return &FileBlobStore{Dir: dir}
}

func (s *FileBlobStore) path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Load reads the named blob. A missing file yields ErrBlobNotFound.
func (s *FileBlobStore) Load(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("could not read %s: %w", name, err)
	}
	return data, nil
}

// Save writes data to name.tmp and renames it over the previous blob, so a
// crash mid-write never leaves a truncated snapshot behind.
func (s *FileBlobStore) Save(_ context.Context, name string, data []byte) error {
	log := logger.Log.WithFields(logrus.Fields{
		"dir":   s.Dir,
		"blob":  name,
		"bytes": len(data),
	})

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		log.WithError(err).Error("Failed to create data directory")
		return fmt.Errorf("could not create data directory: %w", err)
	}

	target := s.path(name)
	tmp := target + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		log.WithError(err).Error("Failed to create temporary blob file")
		return fmt.Errorf("could not create %s: %w", tmp, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		log.WithError(err).Error("Failed to write blob")
		return fmt.Errorf("could not write %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("could not sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		log.WithError(err).Error("Failed to replace blob")
		return fmt.Errorf("could not replace %s: %w", target, err)
	}

	log.Debug("Blob saved")
	return nil
}
