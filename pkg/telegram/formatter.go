package telegram

import (
	"fmt"
	"strings"
	"time"
)

// FormatEvaluationSummary renders a collector evaluation sweep result for Telegram.
func FormatEvaluationSummary(evaluatedCount int, failedCount int, meanErrorRate float64, ranAt time.Time) string {
	var b strings.Builder

	b.WriteString("*Prediction Evaluation Sweep*\n")
	b.WriteString(fmt.Sprintf("Evaluated: %d\n", evaluatedCount))
	if failedCount > 0 {
		b.WriteString(fmt.Sprintf("Failed: %d\n", failedCount))
	}
	if evaluatedCount > 0 {
		b.WriteString(fmt.Sprintf("Mean error rate: %.2f%%\n", meanErrorRate))
	}
	b.WriteString(fmt.Sprintf("Ran at: %s", ranAt.Format(time.RFC3339)))

	return b.String()
}

// FormatNewsCollectionSummary renders a collector news refresh result for Telegram.
func FormatNewsCollectionSummary(symbol string, saved int, refreshed int) string {
	return fmt.Sprintf("*News Refresh* `%s`\nNew articles: %d\nRefreshed: %d", symbol, saved, refreshed)
}
