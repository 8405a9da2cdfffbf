package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/common"
)

// PredictionLogRepository persists prediction logs and their evaluation state.
type PredictionLogRepository interface {
	Create(ctx context.Context, log *entity.PredictionLog) error
	GetByID(ctx context.Context, id uint) (*entity.PredictionLog, error)
	Update(ctx context.Context, log *entity.PredictionLog) error
	GetPending(ctx context.Context, asOf time.Time, symbol string, limit int) ([]entity.PredictionLog, error)
	GetEvaluatedByModel(ctx context.Context, modelName, symbol string) ([]entity.PredictionLog, error)
	GetHistory(ctx context.Context, symbol, modelName string, limit int) ([]entity.PredictionLog, error)
}

type predictionLogRepository struct {
	db *gorm.DB
}

// NewPredictionLogRepository creates a new PredictionLogRepository.
func NewPredictionLogRepository(db *gorm.DB) PredictionLogRepository {
	return &predictionLogRepository{db: db}
}

func (r *predictionLogRepository) Create(ctx context.Context, log *entity.PredictionLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *predictionLogRepository) GetByID(ctx context.Context, id uint) (*entity.PredictionLog, error) {
	var log entity.PredictionLog
	if err := r.db.WithContext(ctx).First(&log, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("prediction log", id)
		}
		return nil, err
	}
	return &log, nil
}

func (r *predictionLogRepository) Update(ctx context.Context, log *entity.PredictionLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

// GetPending returns unevaluated logs whose prediction date has passed,
// optionally restricted to one symbol.
func (r *predictionLogRepository) GetPending(ctx context.Context, asOf time.Time, symbol string, limit int) ([]entity.PredictionLog, error) {
	var logs []entity.PredictionLog
	query := r.db.WithContext(ctx).
		Where("is_evaluated = ? AND prediction_date <= ?", false, asOf).
		Order("prediction_date ASC")
	if symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *predictionLogRepository) GetEvaluatedByModel(ctx context.Context, modelName, symbol string) ([]entity.PredictionLog, error) {
	var logs []entity.PredictionLog
	query := r.db.WithContext(ctx).
		Where("model_name = ? AND is_evaluated = ?", modelName, true)
	if symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// GetHistory returns evaluated logs filtered by symbol and model when given,
// most recent first.
func (r *predictionLogRepository) GetHistory(ctx context.Context, symbol, modelName string, limit int) ([]entity.PredictionLog, error) {
	var logs []entity.PredictionLog
	query := r.db.WithContext(ctx).
		Where("is_evaluated = ?", true).
		Order("prediction_date DESC")
	if symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}
	if modelName != "" {
		query = query.Where("model_name = ?", modelName)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
