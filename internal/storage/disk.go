package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"courseshelf/internal/errors"
	"courseshelf/internal/subject"
)

// Repository abstracts the folder-per-subject file store so the backing store
// stays swappable without touching handlers or services.
type Repository interface {
	EnsureLayout() error
	List(subjectName string) ([]string, error)
	Save(subjectName, filename string, content io.Reader) (string, error)
	Delete(subjectName, filename string) error
	Open(subjectName, filename string) (*os.File, error)
}

// allowedExtensions is the set of file extensions accepted by Save
// (matched case-insensitively against the part after the last dot).
var allowedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
	"pptx": {},
	"ppt":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"txt":  {},
	"zip":  {},
}

type diskRepository struct {
	root string
}

// NewDiskRepository builds a local-disk repository rooted at root.
func NewDiskRepository(root string) Repository {
	return &diskRepository{root: root}
}

// EnsureLayout creates the root directory and one folder per registered
// subject. Idempotent; called once at process start.
func (r *diskRepository) EnsureLayout() error {
	if err := os.MkdirAll(r.root, 0o755); err != nil {
		return fmt.Errorf("create upload root %s: %w", r.root, err)
	}
	for _, name := range subject.Names() {
		dir := filepath.Join(r.root, subject.Slug(name))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create subject folder %s: %w", dir, err)
		}
	}
	return nil
}

// List returns the regular files directly inside a subject's folder,
// lexicographically sorted.
func (r *diskRepository) List(subjectName string) ([]string, error) {
	dir, err := r.subjectDir(subjectName)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read subject folder %s: %w", dir, err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Save validates and sanitizes filename, then writes content to the subject's
// folder, overwriting any existing file of the same sanitized name. The stored
// name is returned.
func (r *diskRepository) Save(subjectName, filename string, content io.Reader) (string, error) {
	dir, err := r.subjectDir(subjectName)
	if err != nil {
		return "", err
	}
	if filename == "" || content == nil {
		return "", errors.ErrEmptyUpload
	}
	if !extensionAllowed(filename) {
		return "", errors.ErrDisallowedExtension
	}
	stored := SanitizeFilename(filename)
	if stored == "" {
		return "", errors.ErrEmptyUpload
	}

	dst, err := os.Create(filepath.Join(dir, stored))
	if err != nil {
		return "", fmt.Errorf("create file %s: %w", stored, err)
	}
	if _, err := io.Copy(dst, content); err != nil {
		dst.Close()
		return "", fmt.Errorf("write file %s: %w", stored, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close file %s: %w", stored, err)
	}
	return stored, nil
}

// Delete removes the exact filename from the subject's folder.
func (r *diskRepository) Delete(subjectName, filename string) error {
	p, err := r.filePath(subjectName, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return errors.ErrFileNotFound
		}
		return fmt.Errorf("remove file %s: %w", p, err)
	}
	return nil
}

// Open returns a readable handle for streaming. Existence is established by
// the open itself, so a file deleted concurrently surfaces as not found
// instead of a broken stream.
func (r *diskRepository) Open(subjectName, filename string) (*os.File, error) {
	p, err := r.filePath(subjectName, filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrFileNotFound
		}
		return nil, fmt.Errorf("open file %s: %w", p, err)
	}
	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		f.Close()
		return nil, errors.ErrFileNotFound
	}
	return f, nil
}

func (r *diskRepository) subjectDir(subjectName string) (string, error) {
	if !subject.IsValid(subjectName) {
		return "", errors.ErrInvalidSubject
	}
	return filepath.Join(r.root, subject.Slug(subjectName)), nil
}

// filePath resolves a stored filename inside a subject folder. An unknown
// subject cannot contain the file, so it surfaces as not found rather than as
// an invalid subject. Names carrying path separators or dot segments can
// never match a stored (sanitized) name, so they are reported as not found
// too.
func (r *diskRepository) filePath(subjectName, filename string) (string, error) {
	dir, err := r.subjectDir(subjectName)
	if err != nil {
		return "", errors.ErrFileNotFound
	}
	if filename == "" || filename != filepath.Base(filename) ||
		strings.ContainsAny(filename, `/\`) || filename == "." || filename == ".." {
		return "", errors.ErrFileNotFound
	}
	return filepath.Join(dir, filename), nil
}

func extensionAllowed(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(filename[idx+1:])]
	return ok
}

// SanitizeFilename strips directory components and unsafe characters from a
// submitted filename. The result contains only ASCII letters, digits, dots,
// dashes and underscores, with no leading dots.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	return strings.TrimLeft(b.String(), ".")
}
