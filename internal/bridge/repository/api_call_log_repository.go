package repository

import (
	"context"
	"time"

	"openalgo-sheets/internal/entity"

	"gorm.io/gorm"
)

// APICallLogRepository defines the interface for audit log persistence.
type APICallLogRepository interface {
	Create(ctx context.Context, log *entity.APICallLog) error
	FindLatest(ctx context.Context, limit int) ([]entity.APICallLog, error)
	FindLast(ctx context.Context) (*entity.APICallLog, error)
	Count(ctx context.Context) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewAPICallLogRepository creates a new GORM-based audit log repository.
func NewAPICallLogRepository(db *gorm.DB) APICallLogRepository {
	return &apiCallLogRepository{db: db}
}

type apiCallLogRepository struct {
	db *gorm.DB
}

// Create stores a new audit entry.
func (r *apiCallLogRepository) Create(ctx context.Context, log *entity.APICallLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindLatest returns the most recent entries, newest first.
func (r *apiCallLogRepository) FindLatest(ctx context.Context, limit int) ([]entity.APICallLog, error) {
	var logs []entity.APICallLog
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// FindLast returns the single most recent entry.
func (r *apiCallLogRepository) FindLast(ctx context.Context) (*entity.APICallLog, error) {
	var log entity.APICallLog
	if err := r.db.WithContext(ctx).Order("created_at DESC").First(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// Count returns the total number of recorded calls.
func (r *apiCallLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.APICallLog{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOlderThan removes entries created before the cutoff and reports how
// many were removed.
func (r *apiCallLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&entity.APICallLog{})
	return res.RowsAffected, res.Error
}
