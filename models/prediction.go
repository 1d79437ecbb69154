package models

// PredictionStatus flips PENDING → CALCULATED exactly once, driven solely by
// the settlement transaction.
type PredictionStatus string

const (
	PredictionStatusPending    PredictionStatus = "PENDING"
	PredictionStatusCalculated PredictionStatus = "CALCULATED"
)

// Prediction is a user's score guess for one match. At most one row per
// (user, match); a second submission updates the existing row.
type Prediction struct {
	ID        string           `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string           `gorm:"type:uuid;not null;index;uniqueIndex:idx_predictions_user_match" json:"user_id"`
	MatchID   string           `gorm:"type:uuid;not null;index;uniqueIndex:idx_predictions_user_match" json:"match_id"`
	HomeScore int              `gorm:"not null" json:"home_score"`
	AwayScore int              `gorm:"not null" json:"away_score"`
	Points    int              `gorm:"default:0" json:"points"`
	Status    PredictionStatus `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`

	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Match *Match `gorm:"foreignKey:MatchID" json:"match,omitempty"`

	Timestamps
}
