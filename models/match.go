package models

import "time"

// MatchStatus follows SCHEDULED → LIVE → COMPLETED, one direction only.
// CANCELLED is terminal from SCHEDULED or LIVE.
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "SCHEDULED"
	MatchStatusLive      MatchStatus = "LIVE"
	MatchStatusCompleted MatchStatus = "COMPLETED"
	MatchStatusCancelled MatchStatus = "CANCELLED"
)

// Match is a fixture users predict on. HomeScore/AwayScore stay nil until the
// result is entered; League/Season are competition labels, not user leagues.
type Match struct {
	ID        string      `gorm:"primaryKey;type:uuid" json:"id"`
	HomeTeam  string      `gorm:"not null" json:"home_team"`
	AwayTeam  string      `gorm:"not null" json:"away_team"`
	StartTime time.Time   `gorm:"not null;index" json:"start_time"`
	EndTime   *time.Time  `json:"end_time,omitempty"`
	HomeScore *int        `json:"home_score,omitempty"`
	AwayScore *int        `json:"away_score,omitempty"`
	Status    MatchStatus `gorm:"type:varchar(16);not null;default:'SCHEDULED';index" json:"status"`
	League    string      `gorm:"not null;index" json:"league"`
	Season    string      `gorm:"not null;index" json:"season"`

	Predictions []Prediction `gorm:"foreignKey:MatchID" json:"predictions,omitempty"`

	Timestamps
}

// HasResult reports whether both final scores are present.
func (m *Match) HasResult() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}
