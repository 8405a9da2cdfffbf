package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"golang-stock-insight/internal/api/config"
	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/telegram"
)

// CollectorService runs the background news collection and evaluation sweeps.
type CollectorService interface {
	Start(ctx context.Context)
	CollectNews(ctx context.Context)
	SweepEvaluations(ctx context.Context)
}

type collectorService struct {
	cfg        *config.Config
	log        *logger.Logger
	news       NewsService
	evaluation EvaluationService
	notifier   telegram.Notifier
	cronParser cron.Parser

	newsSchedule  cron.Schedule
	sweepSchedule cron.Schedule
}

// NewCollectorService creates a new CollectorService. Invalid cron expressions
// disable the corresponding sweep rather than failing startup.
func NewCollectorService(cfg *config.Config, log *logger.Logger, news NewsService, evaluation EvaluationService, notifier telegram.Notifier) CollectorService {
	s := &collectorService{
		cfg:        cfg,
		log:        log,
		news:       news,
		evaluation: evaluation,
		notifier:   notifier,
		cronParser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}

	if cfg.News.CollectCron != "" {
		schedule, err := s.cronParser.Parse(cfg.News.CollectCron)
		if err != nil {
			log.Error("Invalid news collection cron expression, collection disabled",
				logger.StringField("cron", cfg.News.CollectCron), logger.ErrorField(err))
		} else {
			s.newsSchedule = schedule
		}
	}
	if cfg.Evaluation.SweepCron != "" {
		schedule, err := s.cronParser.Parse(cfg.Evaluation.SweepCron)
		if err != nil {
			log.Error("Invalid evaluation sweep cron expression, sweep disabled",
				logger.StringField("cron", cfg.Evaluation.SweepCron), logger.ErrorField(err))
		} else {
			s.sweepSchedule = schedule
		}
	}
	return s
}

// Start runs the collector loop until the context is cancelled.
func (s *collectorService) Start(ctx context.Context) {
	if s.newsSchedule == nil && s.sweepSchedule == nil {
		s.log.Info("Collector has no schedules, not starting")
		return
	}

	nextNews := s.nextRun(s.newsSchedule)
	nextSweep := s.nextRun(s.sweepSchedule)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Collector stopping")
			return
		case now := <-ticker.C:
			if s.newsSchedule != nil && now.After(nextNews) {
				s.CollectNews(ctx)
				nextNews = s.newsSchedule.Next(now)
			}
			if s.sweepSchedule != nil && now.After(nextSweep) {
				s.SweepEvaluations(ctx)
				nextSweep = s.sweepSchedule.Next(now)
			}
		}
	}
}

func (s *collectorService) nextRun(schedule cron.Schedule) time.Time {
	if schedule == nil {
		return time.Time{}
	}
	return schedule.Next(time.Now())
}

// CollectNews refreshes news for every watched symbol.
func (s *collectorService) CollectNews(ctx context.Context) {
	for _, symbol := range s.cfg.News.WatchedSymbols {
		start := time.Now()
		saved, err := s.news.FetchAndSaveNews(ctx, &dto.NewsFetchRequest{Symbol: symbol})
		if err != nil {
			s.log.ErrorContext(ctx, "Scheduled news collection failed",
				logger.StringField("symbol", symbol), logger.ErrorField(err))
			continue
		}

		newCount := 0
		for _, log := range saved {
			if !log.CollectedAt.Before(start) {
				newCount++
			}
		}

		s.log.InfoContext(ctx, "Scheduled news collection finished",
			logger.StringField("symbol", symbol),
			logger.IntField("new", newCount),
			logger.IntField("refreshed", len(saved)-newCount))
		s.notify(ctx, telegram.FormatNewsCollectionSummary(symbol, newCount, len(saved)-newCount))
	}
}

// SweepEvaluations evaluates due prediction logs and reports the outcome.
func (s *collectorService) SweepEvaluations(ctx context.Context) {
	result, err := s.evaluation.EvaluatePending(ctx, "", s.cfg.Evaluation.SweepLimit)
	if err != nil {
		s.log.ErrorContext(ctx, "Evaluation sweep failed", logger.ErrorField(err))
		return
	}

	meanErrorRate := 0.0
	counted := 0
	for _, log := range result.EvaluatedLogs {
		if log.ErrorRate != nil {
			meanErrorRate += *log.ErrorRate
			counted++
		}
	}
	if counted > 0 {
		meanErrorRate /= float64(counted)
	}

	s.log.InfoContext(ctx, "Evaluation sweep finished",
		logger.IntField("evaluated_count", result.EvaluatedCount),
		logger.Float64Field("mean_error_rate", meanErrorRate))

	if result.EvaluatedCount > 0 {
		failed := result.EvaluatedCount - counted
		s.notify(ctx, telegram.FormatEvaluationSummary(result.EvaluatedCount, failed, meanErrorRate, time.Now().UTC()))
	}
}

func (s *collectorService) notify(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendMessage(message); err != nil {
		s.log.ErrorContext(ctx, "Failed to send Telegram notification", logger.ErrorField(err))
	}
}
