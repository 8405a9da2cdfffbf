package entity

import (
	"time"

	"github.com/lib/pq"
)

// PaperInsight is a research note captured from a paper, optionally tied to a
// symbol. Only the is_read flag is mutated after creation.
type PaperInsight struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	PaperTitle     string         `gorm:"not null" json:"paper_title"`
	PaperDOI       string         `gorm:"column:paper_doi" json:"paper_doi,omitempty"`
	Symbol         string         `gorm:"index" json:"symbol,omitempty"`
	InsightSummary string         `gorm:"type:text;not null" json:"insight_summary"`
	Methodology    string         `gorm:"type:text" json:"methodology,omitempty"`
	KeyFindings    pq.StringArray `gorm:"type:text[]" json:"key_findings,omitempty"`
	IsRead         bool           `gorm:"default:false" json:"is_read"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the PaperInsight model.
func (PaperInsight) TableName() string {
	return "paper_insights"
}
