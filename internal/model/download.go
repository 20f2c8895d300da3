package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DownloadRecord is one entry in the append-only download ledger. Records are
// written once per successful download and never updated or deleted.
type DownloadRecord struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Subject      string    `json:"subject" gorm:"size:64;not null;index"`
	Filename     string    `json:"filename" gorm:"size:255;not null;index"`
	DownloadedAt time.Time `json:"downloaded_at" gorm:"not null;index"`
}

// BeforeCreate sets UUID and timestamp before creating the record.
func (d *DownloadRecord) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.DownloadedAt.IsZero() {
		d.DownloadedAt = time.Now().UTC()
	}
	return nil
}
