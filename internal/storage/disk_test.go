package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseshelf/internal/errors"
	"courseshelf/internal/subject"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	repo := NewDiskRepository(t.TempDir())
	require.NoError(t, repo.EnsureLayout())
	return repo
}

func TestEnsureLayout(t *testing.T) {
	root := t.TempDir()
	repo := NewDiskRepository(root)

	require.NoError(t, repo.EnsureLayout())
	for _, name := range subject.Names() {
		info, err := os.Stat(filepath.Join(root, subject.Slug(name)))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Idempotent
	require.NoError(t, repo.EnsureLayout())
}

func TestSaveAndList(t *testing.T) {
	repo := newTestRepo(t)

	stored, err := repo.Save("History", "notes.pdf", strings.NewReader("v1"))
	require.NoError(t, err)
	assert.Equal(t, "notes.pdf", stored)

	files, err := repo.List("History")
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.pdf"}, files)

	// Overwrite keeps a single entry but replaces content
	_, err = repo.Save("History", "notes.pdf", strings.NewReader("v2"))
	require.NoError(t, err)

	files, err = repo.List("History")
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.pdf"}, files)

	f, err := repo.Open("History", "notes.pdf")
	require.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(content))
}

func TestSaveExtensionAllowList(t *testing.T) {
	repo := newTestRepo(t)

	for _, ext := range []string{"pdf", "docx", "pptx", "ppt", "jpg", "jpeg", "png", "txt", "zip"} {
		_, err := repo.Save("IT", "file."+ext, strings.NewReader("x"))
		assert.NoError(t, err, ext)
		_, err = repo.Save("IT", "FILE."+strings.ToUpper(ext), strings.NewReader("x"))
		assert.NoError(t, err, "extension check is case-insensitive")
	}

	for _, name := range []string{"virus.exe", "script.sh", "noextension", "trailingdot."} {
		_, err := repo.Save("IT", name, strings.NewReader("x"))
		assert.ErrorIs(t, err, errors.ErrDisallowedExtension, name)
	}

	files, err := repo.List("IT")
	require.NoError(t, err)
	for _, f := range files {
		assert.NotContains(t, f, "virus")
		assert.NotContains(t, f, "script")
	}
}

func TestSaveRejectsInvalidInput(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Save("Chemistry", "notes.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, errors.ErrInvalidSubject)

	_, err = repo.Save("History", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, errors.ErrEmptyUpload)

	_, err = repo.Save("History", "notes.pdf", nil)
	assert.ErrorIs(t, err, errors.ErrEmptyUpload)
}

func TestSaveSanitizesFilename(t *testing.T) {
	root := t.TempDir()
	repo := NewDiskRepository(root)
	require.NoError(t, repo.EnsureLayout())

	stored, err := repo.Save("History", "../../escape.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "escape.pdf", stored)

	// File landed inside the subject folder, not outside the root
	_, err = os.Stat(filepath.Join(root, "history", "escape.pdf"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "..", "escape.pdf"))
	assert.True(t, os.IsNotExist(err))

	stored, err = repo.Save("History", `term paper (final).docx`, strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "term_paper_final.docx", stored)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "notes.pdf", expected: "notes.pdf"},
		{input: "my report.pdf", expected: "my_report.pdf"},
		{input: "../../../etc/passwd.txt", expected: "passwd.txt"},
		{input: `..\..\windows.txt`, expected: "windows.txt"},
		{input: ".hidden.pdf", expected: "hidden.pdf"},
		{input: "..", expected: ""},
		{input: "résumé.pdf", expected: "rsum.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Save("English", "essay.txt", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete("English", "essay.txt"))

	files, err := repo.List("English")
	require.NoError(t, err)
	assert.Empty(t, files)

	// Deleting again reports not found and leaves the listing unchanged.
	// An unknown subject cannot hold the file, so it reads the same way.
	assert.ErrorIs(t, repo.Delete("English", "essay.txt"), errors.ErrFileNotFound)
	assert.ErrorIs(t, repo.Delete("Chemistry", "essay.txt"), errors.ErrFileNotFound)

	files, err = repo.List("English")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestOpen(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Open("History", "missing.pdf")
	assert.ErrorIs(t, err, errors.ErrFileNotFound)

	_, err = repo.Open("Chemistry", "missing.pdf")
	assert.ErrorIs(t, err, errors.ErrFileNotFound)

	// Traversal attempts read as not found, never as an escape
	for _, name := range []string{"../secret.pdf", "a/b.pdf", `a\b.pdf`, "..", ""} {
		_, err = repo.Open("History", name)
		assert.ErrorIs(t, err, errors.ErrFileNotFound, name)
	}

	_, err = repo.Save("History", "notes.pdf", strings.NewReader("hello"))
	require.NoError(t, err)

	f, err := repo.Open("History", "notes.pdf")
	require.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestListOnlyRegularFiles(t *testing.T) {
	root := t.TempDir()
	repo := NewDiskRepository(root)
	require.NoError(t, repo.EnsureLayout())

	require.NoError(t, os.Mkdir(filepath.Join(root, "history", "nested"), 0o755))
	_, err := repo.Save("History", "b.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = repo.Save("History", "a.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	files, err := repo.List("History")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, files, "sorted, directories excluded")
}
