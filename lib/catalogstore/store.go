// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalogstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrLocked is returned by Open when another process holds the lock.
var ErrLocked = errors.New("catalog is in use by another process")

// Store is an open, locked catalog file.
type Store struct {
	path     string
	lockFile *os.File
}

// Open locks the catalog at path. The catalog file itself need not
// exist yet; its parent directory is created with mode 0700.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	lockPath := path + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file %s: %w", lockPath, err)
	}
	if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		lockFile.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%s: %w", path, ErrLocked)
		}
		return nil, fmt.Errorf("locking %s: %w", lockPath, err)
	}
	return &Store{path: path, lockFile: lockFile}, nil
}

// Path returns the catalog file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the catalog file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Read returns the container bytes. When the file does not exist, the
// returned error wraps os.ErrNotExist.
func (s *Store) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return data, nil
}

// Write atomically replaces the catalog file with data (mode 0600).
func (s *Store) Write(data []byte) error {
	if s.lockFile == nil {
		return errors.New("catalog store is closed")
	}
	temporaryPath := s.path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating temporary catalog file: %w", err)
	}

	// Write, sync, close, in that order. If any step fails, remove the
	// temporary file and report the first error.
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary catalog file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary catalog file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary catalog file: %w", err)
	}

	if err := os.Rename(temporaryPath, s.path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming catalog file into place: %w", err)
	}

	parentDirectory, err := os.Open(filepath.Dir(s.path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}
	return nil
}

// Close releases the lock. Idempotent.
func (s *Store) Close() error {
	if s.lockFile == nil {
		return nil
	}
	// Closing the descriptor drops the flock.
	err := s.lockFile.Close()
	s.lockFile = nil
	return err
}
