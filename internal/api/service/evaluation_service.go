package service

import (
	"context"
	"math"
	"sort"
	"time"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/api/repository"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"
)

// EvaluationService compares predictions with actual market prices and
// aggregates model accuracy.
type EvaluationService interface {
	EvaluatePrediction(ctx context.Context, req *dto.EvaluationRequest) (*entity.PredictionLog, error)
	EvaluatePending(ctx context.Context, symbol string, limit int) (*dto.EvaluatePendingResponse, error)
	GetModelAccuracy(ctx context.Context, modelName, symbol string) (*dto.ModelAccuracyResponse, error)
	GetEvaluationHistory(ctx context.Context, symbol, modelName string, limit int) ([]entity.PredictionLog, error)
}

type evaluationService struct {
	log               *logger.Logger
	predictionLogRepo repository.PredictionLogRepository
	marketDataRepo    repository.MarketDataRepository
}

// NewEvaluationService creates a new EvaluationService.
func NewEvaluationService(log *logger.Logger, predictionLogRepo repository.PredictionLogRepository, marketDataRepo repository.MarketDataRepository) EvaluationService {
	return &evaluationService{
		log:               log,
		predictionLogRepo: predictionLogRepo,
		marketDataRepo:    marketDataRepo,
	}
}

// EvaluatePrediction records the actual price against a prediction log and
// computes the error rate. When the caller provides no price, the close on the
// prediction date is used, falling back to the current price.
func (s *evaluationService) EvaluatePrediction(ctx context.Context, req *dto.EvaluationRequest) (*entity.PredictionLog, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	predictionLog, err := s.predictionLogRepo.GetByID(ctx, req.PredictionLogID)
	if err != nil {
		return nil, err
	}

	actualPrice := req.ActualPrice
	if actualPrice == nil {
		price, err := s.marketDataRepo.GetHistoricalPrice(ctx, predictionLog.Symbol, predictionLog.PredictionDate)
		if err != nil {
			s.log.DebugContext(ctx, "Historical price unavailable, using current price",
				logger.StringField("symbol", predictionLog.Symbol), logger.ErrorField(err))
			price, err = s.marketDataRepo.GetCurrentPrice(ctx, predictionLog.Symbol)
			if err != nil {
				return nil, err
			}
		}
		actualPrice = utils.ToPointer(price)
	}

	if *actualPrice > 0 {
		errorRate := math.Abs(predictionLog.PredictedPrice-*actualPrice) / *actualPrice * 100
		predictionLog.ErrorRate = utils.ToPointer(errorRate)
	}
	predictionLog.ActualPrice = actualPrice
	predictionLog.IsEvaluated = true
	predictionLog.ActualDate = utils.ToPointer(time.Now().UTC())

	if err := s.predictionLogRepo.Update(ctx, predictionLog); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Prediction evaluated",
		logger.StringField("symbol", predictionLog.Symbol),
		logger.Float64Field("predicted_price", predictionLog.PredictedPrice),
		logger.Float64Field("actual_price", *actualPrice))

	return predictionLog, nil
}

// EvaluatePending evaluates due prediction logs. Failures on individual logs
// are logged and skipped so one dead symbol cannot stall the sweep.
func (s *evaluationService) EvaluatePending(ctx context.Context, symbol string, limit int) (*dto.EvaluatePendingResponse, error) {
	if limit <= 0 {
		limit = 100
	}

	pending, err := s.predictionLogRepo.GetPending(ctx, time.Now().UTC(), symbol, limit)
	if err != nil {
		return nil, err
	}

	response := &dto.EvaluatePendingResponse{EvaluatedLogs: []entity.PredictionLog{}}
	for _, log := range pending {
		evaluated, err := s.EvaluatePrediction(ctx, &dto.EvaluationRequest{PredictionLogID: log.ID})
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to evaluate prediction log",
				logger.IntField("prediction_log_id", int(log.ID)), logger.ErrorField(err))
			continue
		}
		response.EvaluatedLogs = append(response.EvaluatedLogs, *evaluated)
	}
	response.EvaluatedCount = len(response.EvaluatedLogs)
	return response, nil
}

// GetModelAccuracy aggregates error rates for a model. With no evaluated logs
// the rate fields stay nil rather than reporting a fake zero.
func (s *evaluationService) GetModelAccuracy(ctx context.Context, modelName, symbol string) (*dto.ModelAccuracyResponse, error) {
	logs, err := s.predictionLogRepo.GetEvaluatedByModel(ctx, modelName, symbol)
	if err != nil {
		return nil, err
	}

	response := &dto.ModelAccuracyResponse{
		ModelName:        modelName,
		Symbol:           symbol,
		TotalPredictions: len(logs),
	}

	errorRates := make([]float64, 0, len(logs))
	for _, log := range logs {
		if log.ErrorRate != nil {
			errorRates = append(errorRates, *log.ErrorRate)
		}
	}
	if len(errorRates) == 0 {
		return response, nil
	}

	sort.Float64s(errorRates)
	sum := 0.0
	for _, rate := range errorRates {
		sum += rate
	}
	avg := sum / float64(len(errorRates))
	median := errorRates[len(errorRates)/2]
	accuracy := math.Max(0, 100-avg)

	response.AverageErrorRate = utils.ToPointer(round2(avg))
	response.MedianErrorRate = utils.ToPointer(round2(median))
	response.MinErrorRate = utils.ToPointer(round2(errorRates[0]))
	response.MaxErrorRate = utils.ToPointer(round2(errorRates[len(errorRates)-1]))
	response.AccuracyScore = utils.ToPointer(round2(accuracy))
	return response, nil
}

func (s *evaluationService) GetEvaluationHistory(ctx context.Context, symbol, modelName string, limit int) ([]entity.PredictionLog, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.predictionLogRepo.GetHistory(ctx, symbol, modelName, limit)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
