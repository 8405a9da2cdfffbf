package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/api/repository"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"
)

// PredictionService generates predictions and serves stored ones.
type PredictionService interface {
	GeneratePrediction(ctx context.Context, req *dto.PredictionRequest) (*dto.GeneratePredictionResponse, error)
	GetPredictions(ctx context.Context, symbol string, limit int) ([]dto.PredictionResponse, error)
}

type predictionService struct {
	db             *gorm.DB
	log            *logger.Logger
	marketDataRepo repository.MarketDataRepository
	predictionRepo repository.PredictionRepository
	predictors     map[string]Predictor
	defaultModel   string
}

// NewPredictionService creates a new PredictionService. Predictors are keyed by
// model name; an unknown requested model falls back to the default.
func NewPredictionService(db *gorm.DB, log *logger.Logger, marketDataRepo repository.MarketDataRepository, predictionRepo repository.PredictionRepository, predictors []Predictor, defaultModel string) PredictionService {
	byName := make(map[string]Predictor, len(predictors))
	for _, p := range predictors {
		byName[p.Name()] = p
	}
	if _, ok := byName[defaultModel]; !ok && len(predictors) > 0 {
		defaultModel = predictors[0].Name()
	}
	return &predictionService{
		db:             db,
		log:            log,
		marketDataRepo: marketDataRepo,
		predictionRepo: predictionRepo,
		predictors:     byName,
		defaultModel:   defaultModel,
	}
}

// GeneratePrediction fetches a year of daily history, runs the predictor, and
// stores the prediction together with its evaluation log in one transaction.
func (s *predictionService) GeneratePrediction(ctx context.Context, req *dto.PredictionRequest) (*dto.GeneratePredictionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	predictor := s.resolvePredictor(ctx, req.ModelName)

	snapshot, err := s.marketDataRepo.GetMarketData(ctx, dto.GetMarketDataParam{
		Symbol:   req.Symbol,
		Period:   "1y",
		Interval: "1d",
	})
	if err != nil {
		return nil, fmt.Errorf("fetching history for prediction: %w", err)
	}

	metadata, predictedPrice, confidence, err := predictor.Predict(snapshot.History, req.DaysAhead)
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", predictor.Name(), err)
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	predictionDate := time.Now().UTC().AddDate(0, 0, req.DaysAhead)
	prediction := &entity.Prediction{
		Symbol:         snapshot.Symbol,
		ModelName:      predictor.Name(),
		PredictedPrice: predictedPrice,
		Confidence:     confidence,
		PredictionDate: predictionDate,
		Metadata:       datatypes.JSON(metadataJSON),
	}
	predictionLog := &entity.PredictionLog{
		Symbol:         snapshot.Symbol,
		ModelName:      predictor.Name(),
		PredictedPrice: predictedPrice,
		PredictionDate: predictionDate,
		IsEvaluated:    false,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(prediction).Error; err != nil {
			return err
		}
		predictionLog.PredictionID = utils.ToPointer(prediction.ID)
		return tx.Create(predictionLog).Error
	})
	if err != nil {
		return nil, fmt.Errorf("storing prediction: %w", err)
	}

	s.log.InfoContext(ctx, "Prediction generated",
		logger.StringField("symbol", snapshot.Symbol),
		logger.StringField("model", predictor.Name()),
		logger.Float64Field("predicted_price", predictedPrice),
		logger.Float64Field("confidence", confidence))

	return &dto.GeneratePredictionResponse{
		ID:              prediction.ID,
		Symbol:          prediction.Symbol,
		ModelName:       prediction.ModelName,
		PredictedPrice:  prediction.PredictedPrice,
		Confidence:      prediction.Confidence,
		PredictionDate:  prediction.PredictionDate,
		CreatedAt:       prediction.CreatedAt,
		PredictionLogID: predictionLog.ID,
	}, nil
}

func (s *predictionService) GetPredictions(ctx context.Context, symbol string, limit int) ([]dto.PredictionResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	predictions, err := s.predictionRepo.GetBySymbol(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PredictionResponse, 0, len(predictions))
	for _, p := range predictions {
		responses = append(responses, dto.PredictionResponse{
			ID:             p.ID,
			Symbol:         p.Symbol,
			ModelName:      p.ModelName,
			PredictedPrice: p.PredictedPrice,
			Confidence:     p.Confidence,
			PredictionDate: p.PredictionDate,
			CreatedAt:      p.CreatedAt,
		})
	}
	return responses, nil
}

func (s *predictionService) resolvePredictor(ctx context.Context, modelName string) Predictor {
	if modelName == "" {
		modelName = s.defaultModel
	}
	if predictor, ok := s.predictors[modelName]; ok {
		return predictor
	}
	s.log.DebugContext(ctx, "Unknown model requested, using default",
		logger.StringField("requested", modelName),
		logger.StringField("default", s.defaultModel))
	return s.predictors[s.defaultModel]
}
