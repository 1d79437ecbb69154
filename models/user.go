package models

// User is the local profile row for a predictor. Identity is issued by the
// gateway/auth service; this service only owns the cumulative points total.
// Points are mutated exclusively by the prediction settlement transaction.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `json:"email,omitempty"`
	Points   int64  `gorm:"default:0;index" json:"points"`

	Timestamps
}
