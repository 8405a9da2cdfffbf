package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"golang-stock-insight/internal/entity"
)

// NewsLogRepository persists collected news articles.
type NewsLogRepository interface {
	Create(ctx context.Context, log *entity.NewsLog) error
	GetByLink(ctx context.Context, link string) (*entity.NewsLog, error)
	UpdateSentiment(ctx context.Context, id uint, score float64, label string) error
	GetBySymbol(ctx context.Context, symbol string, limit int) ([]entity.NewsLog, error)
}

type newsLogRepository struct {
	db *gorm.DB
}

// NewNewsLogRepository creates a new NewsLogRepository.
func NewNewsLogRepository(db *gorm.DB) NewsLogRepository {
	return &newsLogRepository{db: db}
}

func (r *newsLogRepository) Create(ctx context.Context, log *entity.NewsLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// GetByLink returns the stored article with the given link, or nil when none
// exists. Link lookup is how duplicate articles are detected before insert.
func (r *newsLogRepository) GetByLink(ctx context.Context, link string) (*entity.NewsLog, error) {
	var log entity.NewsLog
	if err := r.db.WithContext(ctx).Where("link = ?", link).First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

func (r *newsLogRepository) UpdateSentiment(ctx context.Context, id uint, score float64, label string) error {
	return r.db.WithContext(ctx).
		Model(&entity.NewsLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"sentiment_score": score,
			"sentiment_label": label,
		}).Error
}

func (r *newsLogRepository) GetBySymbol(ctx context.Context, symbol string, limit int) ([]entity.NewsLog, error) {
	var logs []entity.NewsLog
	query := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("published_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
