package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path/filepath"
)

// Files keeps each key in its own file under Dir. Writes go to a temp file
// that is renamed into place, so a crash never leaves a torn snapshot.
type Files struct {
	Dir string
}

func NewFiles(dir string) (*Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create store dir: %w", err)
	}
	log.Printf("[STORE] Using snapshot directory %s", dir)
	return &Files{Dir: dir}, nil
}

// CheckFileKey rejects keys that escape to the directory itself or its
// parent once joined onto a path.
func CheckFileKey(key string) error {
	switch key {
	case "", ".", "..":
		return fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return nil
}

func (f *Files) path(key string) (string, error) {
	if err := CheckFileKey(key); err != nil {
		return "", err
	}
	return filepath.Join(f.Dir, url.PathEscape(key)), nil
}

func (f *Files) Load(key string) (string, error) {
	path, err := f.path(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("could not read %q: %w", key, err)
	}
	return string(data), nil
}

func (f *Files) Save(key, value string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.Dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not replace %q: %w", key, err)
	}
	return nil
}
