package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/common"
)

// PaperInsightRepository persists research-paper insights.
type PaperInsightRepository interface {
	Create(ctx context.Context, insight *entity.PaperInsight) error
	GetByID(ctx context.Context, id uint) (*entity.PaperInsight, error)
	List(ctx context.Context, symbol string, isRead *bool, limit int) ([]entity.PaperInsight, error)
	MarkRead(ctx context.Context, id uint) error
}

type paperInsightRepository struct {
	db *gorm.DB
}

// NewPaperInsightRepository creates a new PaperInsightRepository.
func NewPaperInsightRepository(db *gorm.DB) PaperInsightRepository {
	return &paperInsightRepository{db: db}
}

func (r *paperInsightRepository) Create(ctx context.Context, insight *entity.PaperInsight) error {
	return r.db.WithContext(ctx).Create(insight).Error
}

func (r *paperInsightRepository) GetByID(ctx context.Context, id uint) (*entity.PaperInsight, error) {
	var insight entity.PaperInsight
	if err := r.db.WithContext(ctx).First(&insight, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("insight", id)
		}
		return nil, err
	}
	return &insight, nil
}

func (r *paperInsightRepository) List(ctx context.Context, symbol string, isRead *bool, limit int) ([]entity.PaperInsight, error) {
	var insights []entity.PaperInsight
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}
	if isRead != nil {
		query = query.Where("is_read = ?", *isRead)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&insights).Error; err != nil {
		return nil, err
	}
	return insights, nil
}

func (r *paperInsightRepository) MarkRead(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&entity.PaperInsight{}).
		Where("id = ?", id).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.NewNotFoundError("insight", id)
	}
	return nil
}
