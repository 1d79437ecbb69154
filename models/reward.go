package models

// Reward records points earned by one calculated prediction. A row exists iff
// the prediction scored > 0. Never updated or deleted once written; the sum of
// a user's reward points always equals User.Points after a committed
// settlement pass.
type Reward struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	PredictionID string `gorm:"type:uuid;not null;uniqueIndex" json:"prediction_id"`
	Points       int    `gorm:"not null" json:"points"`
	Description  string `gorm:"not null" json:"description"`

	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Prediction *Prediction `gorm:"foreignKey:PredictionID" json:"prediction,omitempty"`

	Timestamps
}
