// Package save is a small file-backed key-value store for session blobs. Each
// key is one YAML document in the store directory.
package save

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	formatVersion = 1
	extension     = ".yaml"
)

var (
	// ErrNotFound is returned by Load for keys that were never saved.
	ErrNotFound = errors.New("save: not found")
	// ErrInvalidKey rejects keys that are not plain file-name tokens.
	ErrInvalidKey = errors.New("save: invalid key")
	// ErrVersion is returned for records written by a newer format.
	ErrVersion = errors.New("save: unsupported format version")
)

type record struct {
	FormatVersion int       `yaml:"format_version"`
	Data          yaml.Node `yaml:"data"`
}

// Store keeps one file per key under a directory.
type Store struct {
	dir string
}

// Open creates dir if needed and returns a store rooted there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("open save dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Save writes v under key, replacing any previous value atomically.
func (s *Store) Save(key string, v any) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	data, err := yaml.Marshal(record{FormatVersion: formatVersion, Data: node})
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Load decodes the value stored under key into v.
func (s *Store) Load(key string, v any) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return fmt.Errorf("load %s: %w", key, err)
	}
	var rec record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	if rec.FormatVersion > formatVersion {
		return fmt.Errorf("%w: %s has version %d", ErrVersion, key, rec.FormatVersion)
	}
	if err := rec.Data.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys in sorted order.
func (s *Store) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, extension) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, extension))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) path(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+extension), nil
}

func validKey(key string) bool {
	if key == "" || len(key) > 64 {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
