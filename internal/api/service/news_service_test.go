package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-insight/internal/api/config"
	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/api/repository"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/common"
)

func newsTestService(t *testing.T) (*newsService, repository.NewsLogRepository) {
	t.Helper()
	db := serviceTestDB(t)
	require.NoError(t, db.AutoMigrate(&entity.NewsLog{}))
	newsRepo := repository.NewNewsLogRepository(db)
	svc := NewNewsService(&config.Config{}, testLogger(t), newsRepo, repository.NewKeywordSentimentAnalyzer())
	return svc.(*newsService), newsRepo
}

func TestSaveArticles_InsertsNewAndKeepsExisting(t *testing.T) {
	svc, newsRepo := newsTestService(t)
	ctx := context.Background()

	existing := &entity.NewsLog{
		Symbol: "AAPL", Title: "old title", Link: "https://example.com/a",
		PublishedDate:  time.Now().AddDate(0, 0, -1),
		SentimentScore: 0.8, SentimentLabel: common.SentimentPositive,
		Source: "yahoo_finance",
	}
	require.NoError(t, newsRepo.Create(ctx, existing))

	articles := []dto.NewsArticle{
		{
			Symbol: "AAPL", Title: "old title", Link: "https://example.com/a",
			PublishedDate:  time.Now(),
			SentimentScore: -0.5, SentimentLabel: common.SentimentNegative,
			Source: "yahoo_finance",
		},
		{
			Symbol: "AAPL", Title: "brand new", Link: "https://example.com/b",
			PublishedDate:  time.Now(),
			SentimentScore: 0.2, SentimentLabel: common.SentimentPositive,
			Source: "yahoo_finance",
		},
	}

	saved, err := svc.saveArticles(ctx, articles, false)
	require.NoError(t, err)
	require.Len(t, saved, 2)

	// Without refresh the stored sentiment survives a re-fetch.
	stored, err := newsRepo.GetByLink(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, 0.8, stored.SentimentScore)
	assert.Equal(t, common.SentimentPositive, stored.SentimentLabel)

	created, err := newsRepo.GetByLink(ctx, "https://example.com/b")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "brand new", created.Title)
}

func TestSaveArticles_RefreshUpdatesSentimentOnly(t *testing.T) {
	svc, newsRepo := newsTestService(t)
	ctx := context.Background()

	existing := &entity.NewsLog{
		Symbol: "AAPL", Title: "old title", Link: "https://example.com/a",
		PublishedDate:  time.Now().AddDate(0, 0, -1),
		SentimentScore: 0.8, SentimentLabel: common.SentimentPositive,
		Source: "yahoo_finance",
	}
	require.NoError(t, newsRepo.Create(ctx, existing))

	articles := []dto.NewsArticle{{
		Symbol: "AAPL", Title: "new title that must not overwrite", Link: "https://example.com/a",
		PublishedDate:  time.Now(),
		SentimentScore: -0.5, SentimentLabel: common.SentimentNegative,
		Source: "yahoo_finance",
	}}

	saved, err := svc.saveArticles(ctx, articles, true)
	require.NoError(t, err)
	require.Len(t, saved, 1)

	stored, err := newsRepo.GetByLink(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, -0.5, stored.SentimentScore)
	assert.Equal(t, common.SentimentNegative, stored.SentimentLabel)
	assert.Equal(t, "old title", stored.Title)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Apple beats estimates", stripHTML("<p>Apple <b>beats</b> estimates</p>"))
	assert.Equal(t, "", stripHTML(""))
	assert.Equal(t, "plain text", stripHTML("plain text"))
}
