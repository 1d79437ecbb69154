// services/leaderboard_service.go
package services

import (
	"context"
	"errors"
	"log"
	"time"

	"match-prediction-system/cache"
	"match-prediction-system/models"
	"match-prediction-system/realtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaderboardService struct {
	DB       *gorm.DB
	Cache    cache.Store
	Notifier *realtime.Notifier
}

func NewLeaderboardService(db *gorm.DB, store cache.Store, notifier *realtime.Notifier) *LeaderboardService {
	return &LeaderboardService{DB: db, Cache: store, Notifier: notifier}
}

type LeaderboardPage struct {
	Entries []models.LeaderboardEntry `json:"entries"`
	Total   int64                     `json:"total"`
}

type RankInfo struct {
	Rank   int   `json:"rank"`
	Points int64 `json:"points"`
}

// rankedUser feeds the rank computation: points must arrive sorted
// descending within one scope.
type rankedUser struct {
	UserID string
	Points int64
}

// assignRanks applies competition ranking: ties share a rank, and the next
// distinct value takes its 1-based position, so [30,30,20,10] → [1,1,3,4].
func assignRanks(scope []rankedUser, leagueID *string) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(scope))
	rank := 0
	for i, u := range scope {
		if i == 0 || u.Points != scope[i-1].Points {
			rank = i + 1
		}
		entries = append(entries, models.LeaderboardEntry{
			ID:       uuid.NewString(),
			UserID:   u.UserID,
			LeagueID: leagueID,
			Points:   u.Points,
			Rank:     rank,
		})
	}
	return entries
}

// RefreshLeaderboards rebuilds the whole leaderboard table from current user
// points inside one transaction: global scope first, then every league scope
// via the membership join. The table is replaced wholesale, which also prunes
// entries for users who left a league or leagues that no longer exist.
//
// Safe to run concurrently with itself (last commit wins, it is derived
// state); callers in the settlement pipeline invoke it strictly after the
// scoring transaction commits.
func (s *LeaderboardService) RefreshLeaderboards(ctx context.Context) error {
	var leagueIDs []string

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users []rankedUser
		if err := tx.Model(&models.User{}).
			Select("id AS user_id", "points").
			Order("points DESC").
			Scan(&users).Error; err != nil {
			return err
		}
		entries := assignRanks(users, nil)

		type memberRow struct {
			LeagueID string
			UserID   string
			Points   int64
		}
		var members []memberRow
		if err := tx.Raw(`
			SELECT lm.league_id, u.id AS user_id, u.points
			FROM league_members lm
			JOIN users u ON u.id = lm.user_id
			ORDER BY lm.league_id, u.points DESC
		`).Scan(&members).Error; err != nil {
			return err
		}

		var scope []rankedUser
		var currentLeague string
		flush := func() {
			if len(scope) == 0 {
				return
			}
			id := currentLeague
			entries = append(entries, assignRanks(scope, &id)...)
			leagueIDs = append(leagueIDs, id)
			scope = scope[:0]
		}
		for _, m := range members {
			if m.LeagueID != currentLeague {
				flush()
				currentLeague = m.LeagueID
			}
			scope = append(scope, rankedUser{UserID: m.UserID, Points: m.Points})
		}
		flush()

		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.LeaderboardEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(entries, 500).Error
	})
	if err != nil {
		return err
	}

	// Invalidate before notifying so clients reacting to the event re-read
	// fresh standings.
	invalidatePatterns(ctx, s.Cache, cache.PatternLeaderboard, cache.PatternHTTPLeaderboard)
	s.Notifier.NotifyLeaderboardUpdated(nil)
	for i := range leagueIDs {
		s.Notifier.NotifyLeaderboardUpdated(&leagueIDs[i])
	}

	log.Printf("📊 [LEADERBOARD] Refreshed standings (global + %d league scope(s))", len(leagueIDs))
	return nil
}

// GetGlobalLeaderboard returns one page of the global standings, cached.
func (s *LeaderboardService) GetGlobalLeaderboard(ctx context.Context, limit, offset int) (*LeaderboardPage, error) {
	key := cache.GlobalLeaderboardKey(limit, offset)
	var page LeaderboardPage
	if hit, err := s.Cache.GetJSON(ctx, key, &page); err != nil {
		log.Printf("⚠️ [CACHE] Read failed for %s: %v", key, err)
	} else if hit {
		return &page, nil
	}

	db := s.DB.WithContext(ctx).Model(&models.LeaderboardEntry{}).Where("league_id IS NULL")
	if err := db.Count(&page.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("User").
		Order("rank ASC").
		Limit(limit).Offset(offset).
		Find(&page.Entries).Error; err != nil {
		return nil, err
	}

	if err := s.Cache.Set(ctx, key, page, time.Hour); err != nil {
		log.Printf("⚠️ [CACHE] Write failed for %s: %v", key, err)
	}
	return &page, nil
}

// GetLeagueLeaderboard returns one page of a league's standings, cached.
func (s *LeaderboardService) GetLeagueLeaderboard(ctx context.Context, leagueID string, limit, offset int) (*LeaderboardPage, error) {
	key := cache.LeagueLeaderboardKey(leagueID, limit, offset)
	var page LeaderboardPage
	if hit, err := s.Cache.GetJSON(ctx, key, &page); err != nil {
		log.Printf("⚠️ [CACHE] Read failed for %s: %v", key, err)
	} else if hit {
		return &page, nil
	}

	db := s.DB.WithContext(ctx).Model(&models.LeaderboardEntry{}).Where("league_id = ?", leagueID)
	if err := db.Count(&page.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("User").
		Order("rank ASC").
		Limit(limit).Offset(offset).
		Find(&page.Entries).Error; err != nil {
		return nil, err
	}

	if err := s.Cache.Set(ctx, key, page, time.Hour); err != nil {
		log.Printf("⚠️ [CACHE] Write failed for %s: %v", key, err)
	}
	return &page, nil
}

// GetUserRank returns the user's snapshot rank and points in the given scope
// (nil leagueID = global). Returns nil when the user has no entry there.
func (s *LeaderboardService) GetUserRank(ctx context.Context, userID string, leagueID *string) (*RankInfo, error) {
	key := cache.UserGlobalRankKey(userID)
	if leagueID != nil {
		key = cache.UserLeagueRankKey(userID, *leagueID)
	}
	var info RankInfo
	if hit, err := s.Cache.GetJSON(ctx, key, &info); err != nil {
		log.Printf("⚠️ [CACHE] Read failed for %s: %v", key, err)
	} else if hit {
		return &info, nil
	}

	db := s.DB.WithContext(ctx).Model(&models.LeaderboardEntry{}).Where("user_id = ?", userID)
	if leagueID != nil {
		db = db.Where("league_id = ?", *leagueID)
	} else {
		db = db.Where("league_id IS NULL")
	}

	var entry models.LeaderboardEntry
	if err := db.First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	info = RankInfo{Rank: entry.Rank, Points: entry.Points}
	if err := s.Cache.Set(ctx, key, info, 30*time.Minute); err != nil {
		log.Printf("⚠️ [CACHE] Write failed for %s: %v", key, err)
	}
	return &info, nil
}
