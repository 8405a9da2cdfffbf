package entity

import "time"

// PredictionLog pairs a prediction with the later observed price so accuracy can
// be tracked. A row is written alongside its Prediction and mutated exactly once,
// when the evaluation step fills the actual price. The prediction_id reference is
// weak: no cascade is enforced.
type PredictionLog struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Symbol         string     `gorm:"index;not null" json:"symbol"`
	ModelName      string     `gorm:"not null" json:"model_name"`
	PredictionID   *uint      `json:"prediction_id,omitempty"`
	PredictedPrice float64    `gorm:"not null" json:"predicted_price"`
	ActualPrice    *float64   `json:"actual_price,omitempty"`
	ErrorRate      *float64   `json:"error_rate,omitempty"`
	PredictionDate time.Time  `gorm:"not null" json:"prediction_date"`
	ActualDate     *time.Time `json:"actual_date,omitempty"`
	IsEvaluated    bool       `gorm:"default:false" json:"is_evaluated"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the PredictionLog model.
func (PredictionLog) TableName() string {
	return "prediction_logs"
}
