package repository

import (
	"context"

	"gorm.io/gorm"

	"golang-stock-insight/internal/entity"
)

// PredictionRepository persists generated predictions.
type PredictionRepository interface {
	Create(ctx context.Context, prediction *entity.Prediction) error
	GetBySymbol(ctx context.Context, symbol string, limit int) ([]entity.Prediction, error)
}

type predictionRepository struct {
	db *gorm.DB
}

// NewPredictionRepository creates a new PredictionRepository.
func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(ctx context.Context, prediction *entity.Prediction) error {
	return r.db.WithContext(ctx).Create(prediction).Error
}

func (r *predictionRepository) GetBySymbol(ctx context.Context, symbol string, limit int) ([]entity.Prediction, error) {
	var predictions []entity.Prediction
	query := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("prediction_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&predictions).Error; err != nil {
		return nil, err
	}
	return predictions, nil
}
