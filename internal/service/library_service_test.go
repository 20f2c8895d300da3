package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"courseshelf/internal/errors"
	"courseshelf/internal/model"
	"courseshelf/internal/storage"
	"courseshelf/internal/subject"
)

// MockDownloadRepository is a mock implementation of DownloadRepository.
type MockDownloadRepository struct {
	mock.Mock
}

func (m *MockDownloadRepository) Create(ctx context.Context, record *model.DownloadRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDownloadRepository) ListRecent(ctx context.Context, limit int) ([]model.DownloadRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DownloadRecord), args.Error(1)
}

func newTestLibrary(t *testing.T, downloads *MockDownloadRepository) LibraryService {
	t.Helper()
	files := storage.NewDiskRepository(t.TempDir())
	require.NoError(t, files.EnsureLayout())
	// nil cache client degrades to always-miss
	return NewLibraryService(files, downloads, nil)
}

func TestLibraryService_Subjects(t *testing.T) {
	library := newTestLibrary(t, new(MockDownloadRepository))
	assert.Equal(t, subject.Names(), library.Subjects(context.Background()))
}

func TestLibraryService_UploadAndList(t *testing.T) {
	library := newTestLibrary(t, new(MockDownloadRepository))
	ctx := context.Background()

	stored, err := library.Upload(ctx, "History", "notes.pdf", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "notes.pdf", stored)

	files, err := library.SubjectFiles(ctx, "History")
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.pdf"}, files)

	all, err := library.AllFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.pdf"}, all["History"])
	assert.Empty(t, all["English"])

	_, err = library.Upload(ctx, "History", "virus.exe", strings.NewReader("x"))
	assert.ErrorIs(t, err, errors.ErrDisallowedExtension)

	_, err = library.SubjectFiles(ctx, "Chemistry")
	assert.ErrorIs(t, err, errors.ErrInvalidSubject)
}

func TestLibraryService_DownloadRecordsLedger(t *testing.T) {
	downloads := new(MockDownloadRepository)
	library := newTestLibrary(t, downloads)
	ctx := context.Background()

	_, err := library.Upload(ctx, "History", "notes.pdf", strings.NewReader("hello"))
	require.NoError(t, err)

	downloads.On("Create", mock.Anything, mock.MatchedBy(func(r *model.DownloadRecord) bool {
		return r.Subject == "History" && r.Filename == "notes.pdf" && !r.DownloadedAt.IsZero()
	})).Return(nil).Once()

	content, err := library.Download(ctx, "History", "notes.pdf")
	require.NoError(t, err)
	defer content.Close()

	data, err := io.ReadAll(content)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	downloads.AssertExpectations(t)
}

func TestLibraryService_DownloadSurvivesLedgerFailure(t *testing.T) {
	downloads := new(MockDownloadRepository)
	library := newTestLibrary(t, downloads)
	ctx := context.Background()

	_, err := library.Upload(ctx, "History", "notes.pdf", strings.NewReader("hello"))
	require.NoError(t, err)

	downloads.On("Create", mock.Anything, mock.Anything).Return(fmt.Errorf("ledger down")).Once()

	content, err := library.Download(ctx, "History", "notes.pdf")
	require.NoError(t, err, "a ledger failure must not fail the download")
	defer content.Close()

	data, err := io.ReadAll(content)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	downloads.AssertExpectations(t)
}

func TestLibraryService_DownloadNotFoundWritesNoRecord(t *testing.T) {
	downloads := new(MockDownloadRepository)
	library := newTestLibrary(t, downloads)

	_, err := library.Download(context.Background(), "History", "never-saved.pdf")
	assert.ErrorIs(t, err, errors.ErrFileNotFound)

	// An unknown subject cannot hold the file either
	_, err = library.Download(context.Background(), "Chemistry", "notes.pdf")
	assert.ErrorIs(t, err, errors.ErrFileNotFound)

	downloads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLibraryService_Delete(t *testing.T) {
	library := newTestLibrary(t, new(MockDownloadRepository))
	ctx := context.Background()

	_, err := library.Upload(ctx, "IT", "lab.zip", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, library.Delete(ctx, "IT", "lab.zip"))
	assert.ErrorIs(t, library.Delete(ctx, "IT", "lab.zip"), errors.ErrFileNotFound)
	assert.ErrorIs(t, library.Delete(ctx, "Chemistry", "lab.zip"), errors.ErrFileNotFound)

	files, err := library.SubjectFiles(ctx, "IT")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLibraryService_RecentDownloads(t *testing.T) {
	downloads := new(MockDownloadRepository)
	library := newTestLibrary(t, downloads)

	downloads.On("ListRecent", mock.Anything, 50).Return([]model.DownloadRecord{}, nil).Once()

	_, err := library.RecentDownloads(context.Background(), 0)
	require.NoError(t, err)

	downloads.AssertExpectations(t)
}
