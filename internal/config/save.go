// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package config

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// ErrSortRunning is returned by LockSort when another sort holds the lock.
var ErrSortRunning = errors.New("another sort is already running with this config")

// Save validates cfg and writes it to path. The write is atomic, and made
// while holding an exclusive lock on path + ".lock" so concurrent saves don't
// interleave. The file is only readable by its owner.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	lock := flock.New(path + ".lock")

	if err := lock.Lock(); err != nil {
		return errors.Wrap(err, "acquire config lock")
	}
	defer func() { _ = lock.Unlock() }()

	return writeFileAtomic(path, data, 0o600)
}

// LockSort takes the lock that allows one sort at a time per config file. It
// doesn't wait: if another sort holds it, ErrSortRunning is returned. Unlock
// the returned lock when the sort is done.
func LockSort(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "create config directory")
	}

	lock := flock.New(path + ".sort.lock")

	ok, err := lock.TryLock()
	if err != nil {
		return nil, errors.Wrap(err, "acquire sort lock")
	}

	if !ok {
		return nil, ErrSortRunning
	}

	return lock, nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "write temp file")
	}

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "chmod temp file")
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "close temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "rename temp file")
	}

	return nil
}
