package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/api/repository"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"
)

// fakeMarketDataRepo serves canned prices without any network.
type fakeMarketDataRepo struct {
	snapshot        *dto.MarketSnapshot
	snapshotErr     error
	currentPrice    float64
	historicalPrice float64
	historicalErr   error
}

func (f *fakeMarketDataRepo) GetMarketData(_ context.Context, _ dto.GetMarketDataParam) (*dto.MarketSnapshot, error) {
	return f.snapshot, f.snapshotErr
}

func (f *fakeMarketDataRepo) GetCurrentPrice(_ context.Context, _ string) (float64, error) {
	return f.currentPrice, nil
}

func (f *fakeMarketDataRepo) GetHistoricalPrice(_ context.Context, _ string, _ time.Time) (float64, error) {
	return f.historicalPrice, f.historicalErr
}

func serviceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Prediction{}, &entity.PredictionLog{}))
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func TestEvaluatePrediction_WithExplicitPrice(t *testing.T) {
	db := serviceTestDB(t)
	logRepo := repository.NewPredictionLogRepository(db)
	svc := NewEvaluationService(testLogger(t), logRepo, &fakeMarketDataRepo{})
	ctx := context.Background()

	require.NoError(t, logRepo.Create(ctx, &entity.PredictionLog{
		Symbol: "AAPL", ModelName: "simple_ma",
		PredictedPrice: 110, PredictionDate: time.Now().AddDate(0, 0, -1),
	}))

	evaluated, err := svc.EvaluatePrediction(ctx, &dto.EvaluationRequest{
		PredictionLogID: 1,
		ActualPrice:     utils.ToPointer(100.0),
	})
	require.NoError(t, err)

	assert.True(t, evaluated.IsEvaluated)
	require.NotNil(t, evaluated.ErrorRate)
	assert.InDelta(t, 10.0, *evaluated.ErrorRate, 1e-9)
	require.NotNil(t, evaluated.ActualPrice)
	assert.Equal(t, 100.0, *evaluated.ActualPrice)
	assert.NotNil(t, evaluated.ActualDate)
}

func TestEvaluatePrediction_FallsBackToCurrentPrice(t *testing.T) {
	db := serviceTestDB(t)
	logRepo := repository.NewPredictionLogRepository(db)
	market := &fakeMarketDataRepo{
		historicalErr: assert.AnError,
		currentPrice:  50,
	}
	svc := NewEvaluationService(testLogger(t), logRepo, market)
	ctx := context.Background()

	require.NoError(t, logRepo.Create(ctx, &entity.PredictionLog{
		Symbol: "AAPL", ModelName: "simple_ma",
		PredictedPrice: 55, PredictionDate: time.Now().AddDate(0, 0, -1),
	}))

	evaluated, err := svc.EvaluatePrediction(ctx, &dto.EvaluationRequest{PredictionLogID: 1})
	require.NoError(t, err)
	require.NotNil(t, evaluated.ActualPrice)
	assert.Equal(t, 50.0, *evaluated.ActualPrice)
	require.NotNil(t, evaluated.ErrorRate)
	assert.InDelta(t, 10.0, *evaluated.ErrorRate, 1e-9)
}

func TestEvaluatePending_EvaluatesOnlyDueLogs(t *testing.T) {
	db := serviceTestDB(t)
	logRepo := repository.NewPredictionLogRepository(db)
	market := &fakeMarketDataRepo{historicalPrice: 100}
	svc := NewEvaluationService(testLogger(t), logRepo, market)
	ctx := context.Background()

	require.NoError(t, logRepo.Create(ctx, &entity.PredictionLog{
		Symbol: "AAPL", ModelName: "simple_ma",
		PredictedPrice: 90, PredictionDate: time.Now().AddDate(0, 0, -1),
	}))
	require.NoError(t, logRepo.Create(ctx, &entity.PredictionLog{
		Symbol: "AAPL", ModelName: "simple_ma",
		PredictedPrice: 95, PredictionDate: time.Now().AddDate(0, 0, 5),
	}))

	result, err := svc.EvaluatePending(ctx, "", 100)
	require.NoError(t, err)
	assert.Equal(t, 1, result.EvaluatedCount)
	require.Len(t, result.EvaluatedLogs, 1)
	assert.InDelta(t, 10.0, *result.EvaluatedLogs[0].ErrorRate, 1e-9)
}

func TestGetModelAccuracy_NoLogsReturnsNilRates(t *testing.T) {
	db := serviceTestDB(t)
	logRepo := repository.NewPredictionLogRepository(db)
	svc := NewEvaluationService(testLogger(t), logRepo, &fakeMarketDataRepo{})

	accuracy, err := svc.GetModelAccuracy(context.Background(), "simple_ma", "")
	require.NoError(t, err)

	assert.Equal(t, "simple_ma", accuracy.ModelName)
	assert.Zero(t, accuracy.TotalPredictions)
	assert.Nil(t, accuracy.AverageErrorRate)
	assert.Nil(t, accuracy.MedianErrorRate)
	assert.Nil(t, accuracy.AccuracyScore)
}

func TestGetModelAccuracy_Aggregates(t *testing.T) {
	db := serviceTestDB(t)
	logRepo := repository.NewPredictionLogRepository(db)
	svc := NewEvaluationService(testLogger(t), logRepo, &fakeMarketDataRepo{})
	ctx := context.Background()

	for _, rate := range []float64{5, 10, 30, 15} {
		require.NoError(t, logRepo.Create(ctx, &entity.PredictionLog{
			Symbol: "AAPL", ModelName: "simple_ma",
			PredictedPrice: 100, PredictionDate: time.Now(),
			IsEvaluated: true, ErrorRate: utils.ToPointer(rate),
		}))
	}

	accuracy, err := svc.GetModelAccuracy(ctx, "simple_ma", "")
	require.NoError(t, err)

	assert.Equal(t, 4, accuracy.TotalPredictions)
	assert.Equal(t, 15.0, *accuracy.AverageErrorRate)
	// Even-length sets take the upper of the two middle values.
	assert.Equal(t, 15.0, *accuracy.MedianErrorRate)
	assert.Equal(t, 5.0, *accuracy.MinErrorRate)
	assert.Equal(t, 30.0, *accuracy.MaxErrorRate)
	assert.Equal(t, 85.0, *accuracy.AccuracyScore)
}
