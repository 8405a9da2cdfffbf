package service

import (
	"context"

	"github.com/lib/pq"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/api/repository"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/logger"
)

// InsightService manages research-paper insights.
type InsightService interface {
	CreateInsight(ctx context.Context, req *dto.CreateInsightRequest) (*entity.PaperInsight, error)
	GetInsight(ctx context.Context, id uint) (*entity.PaperInsight, error)
	ListInsights(ctx context.Context, symbol string, isRead *bool, limit int) ([]entity.PaperInsight, error)
	MarkInsightRead(ctx context.Context, id uint) (*entity.PaperInsight, error)
}

type insightService struct {
	log         *logger.Logger
	insightRepo repository.PaperInsightRepository
}

// NewInsightService creates a new InsightService.
func NewInsightService(log *logger.Logger, insightRepo repository.PaperInsightRepository) InsightService {
	return &insightService{log: log, insightRepo: insightRepo}
}

func (s *insightService) CreateInsight(ctx context.Context, req *dto.CreateInsightRequest) (*entity.PaperInsight, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	insight := &entity.PaperInsight{
		PaperTitle:     req.PaperTitle,
		PaperDOI:       req.PaperDOI,
		Symbol:         req.Symbol,
		InsightSummary: req.InsightSummary,
		Methodology:    req.Methodology,
		KeyFindings:    pq.StringArray(req.KeyFindings),
	}
	if err := s.insightRepo.Create(ctx, insight); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Paper insight created",
		logger.StringField("paper_title", insight.PaperTitle),
		logger.StringField("symbol", insight.Symbol))
	return insight, nil
}

func (s *insightService) GetInsight(ctx context.Context, id uint) (*entity.PaperInsight, error) {
	return s.insightRepo.GetByID(ctx, id)
}

func (s *insightService) ListInsights(ctx context.Context, symbol string, isRead *bool, limit int) ([]entity.PaperInsight, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.insightRepo.List(ctx, symbol, isRead, limit)
}

func (s *insightService) MarkInsightRead(ctx context.Context, id uint) (*entity.PaperInsight, error) {
	if err := s.insightRepo.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	return s.insightRepo.GetByID(ctx, id)
}
