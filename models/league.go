package models

// League is a user-created competition scope for leaderboards. Private
// leagues require an invite code to join.
type League struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	Name       string `gorm:"not null" json:"name"`
	Slug       string `gorm:"uniqueIndex;not null" json:"slug"`
	OwnerID    string `gorm:"type:uuid;not null;index" json:"owner_id"`
	IsPrivate  bool   `gorm:"default:false" json:"is_private"`
	InviteCode string `gorm:"size:16" json:"invite_code,omitempty"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	Timestamps
}

// LeagueMember is the join row between users and leagues.
type LeagueMember struct {
	LeagueID string `gorm:"primaryKey;type:uuid" json:"league_id"`
	UserID   string `gorm:"primaryKey;type:uuid" json:"user_id"`

	Timestamps
}
