package entity

import "time"

// NewsLog is a collected news article with its sentiment tags. Uniqueness of the
// link is enforced at the application level with a pre-insert lookup, not by a
// database constraint; sentiment fields may be refreshed on re-fetch.
type NewsLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Symbol         string    `gorm:"index;not null" json:"symbol"`
	Title          string    `gorm:"not null" json:"title"`
	Link           string    `gorm:"not null" json:"link"`
	Summary        string    `json:"summary,omitempty"`
	PublishedDate  time.Time `gorm:"not null" json:"published_date"`
	SentimentScore float64   `json:"sentiment_score"`
	SentimentLabel string    `json:"sentiment_label"`
	Source         string    `json:"source"`
	CollectedAt    time.Time `gorm:"autoCreateTime" json:"collected_at"`
}

// TableName specifies the table name for the NewsLog model.
func (NewsLog) TableName() string {
	return "news_logs"
}
