package models

import "time"

// LeaderboardEntry is derived state: a snapshot of one user's points and rank
// in one scope (LeagueID nil = global). The whole table is replaced by every
// refresh pass, so rows are hard-deleted (no soft-delete column) and never
// edited in place.
type LeaderboardEntry struct {
	ID       string  `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string  `gorm:"type:uuid;not null;index:idx_leaderboard_scope" json:"user_id"`
	LeagueID *string `gorm:"type:uuid;index:idx_leaderboard_scope;index" json:"league_id,omitempty"`
	Points   int64   `gorm:"not null" json:"points"`
	Rank     int     `gorm:"not null;index" json:"rank"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	League *League `gorm:"foreignKey:LeagueID" json:"league,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
