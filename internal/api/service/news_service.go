package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"

	"golang-stock-insight/internal/api/config"
	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/api/repository"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"
)

// NewsService collects news articles, scores their sentiment, and persists
// them.
type NewsService interface {
	GetLatestNews(ctx context.Context, symbol string, limit, daysBack int) ([]entity.NewsLog, error)
	FetchAndSaveNews(ctx context.Context, req *dto.NewsFetchRequest) ([]entity.NewsLog, error)
	GetNewsHistory(ctx context.Context, symbol string, limit int) ([]entity.NewsLog, error)
}

const (
	summaryMaxLen  = 500
	newsSourceName = "yahoo_finance"
)

type newsService struct {
	cfg        *config.Config
	log        *logger.Logger
	newsRepo   repository.NewsLogRepository
	sentiment  repository.SentimentAnalyzer
	feedParser *gofeed.Parser
	httpClient *http.Client
}

// NewNewsService creates a new NewsService.
func NewNewsService(cfg *config.Config, log *logger.Logger, newsRepo repository.NewsLogRepository, sentiment repository.SentimentAnalyzer) NewsService {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	parser := gofeed.NewParser()
	parser.Client = httpClient
	parser.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	return &newsService{
		cfg:        cfg,
		log:        log,
		newsRepo:   newsRepo,
		sentiment:  sentiment,
		feedParser: parser,
		httpClient: httpClient,
	}
}

// GetLatestNews fetches fresh articles, scores them, and saves the ones not
// seen before. Articles already stored keep their original sentiment.
func (s *newsService) GetLatestNews(ctx context.Context, symbol string, limit, daysBack int) ([]entity.NewsLog, error) {
	articles, err := s.collectScored(ctx, symbol, limit, daysBack)
	if err != nil {
		return nil, err
	}
	return s.saveArticles(ctx, articles, false)
}

// FetchAndSaveNews fetches fresh articles and saves them, refreshing the
// sentiment fields of articles already stored.
func (s *newsService) FetchAndSaveNews(ctx context.Context, req *dto.NewsFetchRequest) ([]entity.NewsLog, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	articles, err := s.collectScored(ctx, req.Symbol, req.Limit, req.DaysBack)
	if err != nil {
		return nil, err
	}
	return s.saveArticles(ctx, articles, true)
}

func (s *newsService) GetNewsHistory(ctx context.Context, symbol string, limit int) ([]entity.NewsLog, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.newsRepo.GetBySymbol(ctx, symbol, limit)
}

// collectScored fetches from the RSS feed, filters to the lookback window, and
// scores sentiment. It over-fetches so the window filter can still fill the
// requested count.
func (s *newsService) collectScored(ctx context.Context, symbol string, limit, daysBack int) ([]dto.NewsArticle, error) {
	fetched, err := s.fetchFromFeed(ctx, symbol, limit*2)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -daysBack)
	scored := make([]dto.NewsArticle, 0, limit)
	for _, article := range fetched {
		if article.PublishedDate.Before(cutoff) {
			continue
		}

		text := article.Title + " " + article.Summary
		if s.cfg.News.FetchContent {
			if content := s.fetchArticleText(ctx, article.Link); content != "" {
				text = article.Title + " " + content
			}
		}

		result, err := s.sentiment.Analyze(ctx, text)
		if err != nil {
			s.log.ErrorContext(ctx, "Sentiment analysis failed, leaving article neutral",
				logger.StringField("link", article.Link), logger.ErrorField(err))
			result = &dto.SentimentResult{Label: common.SentimentNeutral}
		}
		article.SentimentScore = result.Score
		article.SentimentLabel = result.Label

		scored = append(scored, article)
		if len(scored) >= limit {
			break
		}
	}
	return scored, nil
}

// fetchFromFeed pulls the symbol's RSS feed and maps entries to articles,
// newest first.
func (s *newsService) fetchFromFeed(ctx context.Context, symbol string, limit int) ([]dto.NewsArticle, error) {
	feedURL := fmt.Sprintf("%s?s=%s", s.cfg.News.FeedURL, symbol)
	feed, err := s.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed for %s: %w", symbol, err)
	}

	articles := make([]dto.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}
		published := time.Now()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		summary := stripHTML(item.Description)
		articles = append(articles, dto.NewsArticle{
			Symbol:        symbol,
			Title:         utils.CleanToValidUTF8(item.Title),
			Link:          item.Link,
			Summary:       utils.TruncateString(utils.CleanToValidUTF8(summary), summaryMaxLen),
			PublishedDate: published,
			Source:        newsSourceName,
		})
	}

	sort.Slice(articles, func(i, j int) bool {
		return articles[i].PublishedDate.After(articles[j].PublishedDate)
	})
	return articles, nil
}

// fetchArticleText downloads the article page and extracts the readable body.
// Any failure returns an empty string; the summary is good enough then.
func (s *newsService) fetchArticleText(ctx context.Context, link string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.DebugContext(ctx, "Failed to fetch article content",
			logger.StringField("link", link), logger.ErrorField(err))
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}
	html, err := doc.Html()
	if err != nil {
		return ""
	}

	readable, err := readability.NewDocument(html)
	if err != nil {
		return ""
	}
	return stripHTML(readable.Content())
}

// saveArticles persists fetched articles, deduplicating by link. When
// refreshExisting is set, a known link gets its sentiment fields updated.
func (s *newsService) saveArticles(ctx context.Context, articles []dto.NewsArticle, refreshExisting bool) ([]entity.NewsLog, error) {
	saved := make([]entity.NewsLog, 0, len(articles))
	for _, article := range articles {
		existing, err := s.newsRepo.GetByLink(ctx, article.Link)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			log := entity.NewsLog{
				Symbol:         article.Symbol,
				Title:          article.Title,
				Link:           article.Link,
				Summary:        article.Summary,
				PublishedDate:  article.PublishedDate,
				SentimentScore: article.SentimentScore,
				SentimentLabel: article.SentimentLabel,
				Source:         article.Source,
			}
			if err := s.newsRepo.Create(ctx, &log); err != nil {
				return nil, err
			}
			saved = append(saved, log)
			continue
		}

		if refreshExisting {
			if err := s.newsRepo.UpdateSentiment(ctx, existing.ID, article.SentimentScore, article.SentimentLabel); err != nil {
				return nil, err
			}
			existing.SentimentScore = article.SentimentScore
			existing.SentimentLabel = article.SentimentLabel
		}
		saved = append(saved, *existing)
	}

	s.log.InfoContext(ctx, "News articles saved",
		logger.IntField("count", len(saved)))
	return saved, nil
}

// stripHTML flattens markup to plain text.
func stripHTML(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.TrimSpace(doc.Text())
}
