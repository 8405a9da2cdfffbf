package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Prediction is a persisted model forecast for a symbol. Rows are immutable once
// created; history and accuracy queries only read them.
type Prediction struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Symbol         string         `gorm:"index;not null" json:"symbol"`
	ModelName      string         `gorm:"not null" json:"model_name"`
	PredictedPrice float64        `gorm:"not null" json:"predicted_price"`
	Confidence     float64        `json:"confidence"`
	PredictionDate time.Time      `gorm:"not null" json:"prediction_date"`
	Metadata       datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the Prediction model.
func (Prediction) TableName() string {
	return "predictions"
}
