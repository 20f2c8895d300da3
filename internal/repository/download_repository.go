package repository

import (
	"context"

	"gorm.io/gorm"

	"courseshelf/internal/model"
)

// DownloadRepository persists the append-only download ledger.
type DownloadRepository interface {
	Create(ctx context.Context, record *model.DownloadRecord) error
	ListRecent(ctx context.Context, limit int) ([]model.DownloadRecord, error)
}

type downloadRepository struct {
	db *gorm.DB
}

// NewDownloadRepository builds a GORM-backed repository.
func NewDownloadRepository(db *gorm.DB) DownloadRepository {
	return &downloadRepository{db: db}
}

func (r *downloadRepository) Create(ctx context.Context, record *model.DownloadRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *downloadRepository) ListRecent(ctx context.Context, limit int) ([]model.DownloadRecord, error) {
	var records []model.DownloadRecord
	if err := r.db.WithContext(ctx).Order("downloaded_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
