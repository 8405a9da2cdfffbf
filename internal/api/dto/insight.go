package dto

import "fmt"

// CreateInsightRequest captures a research-paper insight.
type CreateInsightRequest struct {
	PaperTitle     string   `json:"paper_title"`
	PaperDOI       string   `json:"paper_doi,omitempty"`
	Symbol         string   `json:"symbol,omitempty"`
	InsightSummary string   `json:"insight_summary"`
	Methodology    string   `json:"methodology,omitempty"`
	KeyFindings    []string `json:"key_findings,omitempty"`
}

// Validate checks the request parameters.
func (r *CreateInsightRequest) Validate() error {
	if r.PaperTitle == "" {
		return fmt.Errorf("paper_title is required")
	}
	if r.InsightSummary == "" {
		return fmt.Errorf("insight_summary is required")
	}
	return nil
}
