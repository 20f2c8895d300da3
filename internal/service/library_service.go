package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"courseshelf/internal/cache"
	"courseshelf/internal/model"
	"courseshelf/internal/repository"
	"courseshelf/internal/storage"
	"courseshelf/internal/subject"
)

const fileListCacheTTL = 30 * time.Second

// LibraryService handles subject browsing, uploads, deletions and downloads.
type LibraryService interface {
	Subjects(ctx context.Context) []string
	SubjectFiles(ctx context.Context, subjectName string) ([]string, error)
	AllFiles(ctx context.Context) (map[string][]string, error)
	Upload(ctx context.Context, subjectName, filename string, content io.Reader) (string, error)
	Delete(ctx context.Context, subjectName, filename string) error
	Download(ctx context.Context, subjectName, filename string) (io.ReadCloser, error)
	RecentDownloads(ctx context.Context, limit int) ([]model.DownloadRecord, error)
}

type libraryService struct {
	files     storage.Repository
	downloads repository.DownloadRepository
	cache     *cache.Client
}

// NewLibraryService creates a new library service.
func NewLibraryService(files storage.Repository, downloads repository.DownloadRepository, cache *cache.Client) LibraryService {
	return &libraryService{
		files:     files,
		downloads: downloads,
		cache:     cache,
	}
}

func (s *libraryService) cacheKey(subjectName string) string {
	return fmt.Sprintf("subject:files:%s", subject.Slug(subjectName))
}

// Subjects returns the registered subjects in display order.
func (s *libraryService) Subjects(ctx context.Context) []string {
	return subject.Names()
}

// SubjectFiles lists a subject's files with short-lived caching.
func (s *libraryService) SubjectFiles(ctx context.Context, subjectName string) ([]string, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(subjectName)); data != nil {
		var cached []string
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	files, err := s.files.List(subjectName)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(files); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(subjectName), payload, fileListCacheTTL)
	}

	return files, nil
}

// AllFiles lists every subject's files keyed by subject display name.
func (s *libraryService) AllFiles(ctx context.Context) (map[string][]string, error) {
	result := make(map[string][]string, len(subject.Names()))
	for _, name := range subject.Names() {
		files, err := s.SubjectFiles(ctx, name)
		if err != nil {
			return nil, err
		}
		result[name] = files
	}
	return result, nil
}

// Upload stores a file under a subject, overwriting any file with the same
// sanitized name, and returns the stored filename.
func (s *libraryService) Upload(ctx context.Context, subjectName, filename string, content io.Reader) (string, error) {
	stored, err := s.files.Save(subjectName, filename, content)
	if err != nil {
		return "", err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(subjectName))
	return stored, nil
}

// Delete removes a file from a subject folder.
func (s *libraryService) Delete(ctx context.Context, subjectName, filename string) error {
	if err := s.files.Delete(subjectName, filename); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(subjectName))
	return nil
}

// Download opens the file for streaming and appends a ledger record. The
// ledger write is best-effort: a failure is logged and never blocks the
// download itself.
func (s *libraryService) Download(ctx context.Context, subjectName, filename string) (io.ReadCloser, error) {
	f, err := s.files.Open(subjectName, filename)
	if err != nil {
		return nil, err
	}

	record := &model.DownloadRecord{
		Subject:      subjectName,
		Filename:     filename,
		DownloadedAt: time.Now().UTC(),
	}
	if err := s.downloads.Create(ctx, record); err != nil {
		log.Printf("record download %s/%s: %v", subjectName, filename, err)
	}

	return f, nil
}

// RecentDownloads returns the latest ledger entries, newest first.
func (s *libraryService) RecentDownloads(ctx context.Context, limit int) ([]model.DownloadRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.downloads.ListRecent(ctx, limit)
}
