package notes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const tempFilePrefix = "note-tmp-"

var frontmatterDelim = []byte("---\n")

type frontmatter struct {
	Key       string    `yaml:"key"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// FileStore keeps one Markdown file per note, with the key and timestamp in a
// YAML frontmatter block.
type FileStore struct {
	dir string
	now func() time.Time
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create notes dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

func (s *FileStore) Write(_ context.Context, key, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	meta, err := yaml.Marshal(frontmatter{Key: key, UpdatedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(frontmatterDelim)
	buf.Write(meta)
	buf.Write(frontmatterDelim)
	buf.WriteString(value)

	return writeFileAtomic(path, buf.Bytes(), 0o644)
}

func (s *FileStore) Read(_ context.Context, key string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read note %s: %w", key, err)
	}
	_, content, err := parseNote(data)
	if err != nil {
		return "", fmt.Errorf("parse note %s: %w", key, err)
	}
	return content, nil
}

func (s *FileStore) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`+"\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+".md"), nil
}

// parseNote splits a stored file into frontmatter and content. Files without
// frontmatter are returned whole as content.
func parseNote(data []byte) (frontmatter, string, error) {
	var meta frontmatter
	if !bytes.HasPrefix(data, frontmatterDelim) {
		return meta, string(data), nil
	}
	rest := data[len(frontmatterDelim):]
	end := bytes.Index(rest, []byte("\n---\n"))
	if end < 0 {
		return meta, "", errors.New("frontmatter started but no closing delimiter found")
	}
	if err := yaml.Unmarshal(rest[:end+1], &meta); err != nil {
		return meta, "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return meta, string(rest[end+len("\n---\n"):]), nil
}

// writeFileAtomic writes to a temp file in the target directory and renames it
// over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	return nil
}
