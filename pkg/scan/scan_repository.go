package scan

import (
	"GreenChoice-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	// ScanRepository is append-only: records are created and read, never
	// updated or deleted. A preference choice lands as a new record.
	ScanRepository interface {
		AddScanRecord(ctx context.Context, record *entities.ScanRecord) error
		GetScanRecords(ctx context.Context, userID string) ([]*entities.ScanRecord, error)
		CountScanRecords(ctx context.Context, userID string) (int64, error)
	}

	scanRepository struct {
		db *gorm.DB
	}
)

func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) AddScanRecord(ctx context.Context, record *entities.ScanRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *scanRepository) GetScanRecords(ctx context.Context, userID string) ([]*entities.ScanRecord, error) {
	var records []*entities.ScanRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *scanRepository) CountScanRecords(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.ScanRecord{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
