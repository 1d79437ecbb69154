// services/archive_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"match-prediction-system/models"
	"match-prediction-system/utils"

	"gorm.io/gorm"
)

// ArchiveService exports final standings snapshots to object storage, so a
// season's table survives the next wholesale leaderboard refresh.
type ArchiveService struct {
	DB *gorm.DB
}

func NewArchiveService(db *gorm.DB) *ArchiveService {
	return &ArchiveService{DB: db}
}

type seasonArchive struct {
	Season     string                    `json:"season"`
	ArchivedAt time.Time                 `json:"archived_at"`
	Global     []models.LeaderboardEntry `json:"global"`
	Leagues    []models.LeaderboardEntry `json:"leagues"`
}

// ArchiveSeasonStandings uploads the current leaderboard snapshot as a JSON
// document under archives/<season>/ and returns its public URL.
func (s *ArchiveService) ArchiveSeasonStandings(ctx context.Context, season string) (string, error) {
	if !utils.R2Enabled() {
		return "", fmt.Errorf("%w: archive storage is not configured", ErrInvalidState)
	}

	doc := seasonArchive{Season: season, ArchivedAt: time.Now().UTC()}

	if err := s.DB.WithContext(ctx).
		Preload("User").
		Where("league_id IS NULL").
		Order("rank ASC").
		Find(&doc.Global).Error; err != nil {
		return "", err
	}
	if err := s.DB.WithContext(ctx).
		Preload("User").
		Where("league_id IS NOT NULL").
		Order("league_id, rank ASC").
		Find(&doc.Leagues).Error; err != nil {
		return "", err
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("archives/%s/standings-%s.json", season, doc.ArchivedAt.Format("20060102T150405Z"))
	url, err := utils.UploadBytesToR2(ctx, key, payload, "application/json")
	if err != nil {
		return "", err
	}

	log.Printf("🗄️ [ARCHIVE] Season %s standings archived to %s", season, url)
	return url, nil
}
