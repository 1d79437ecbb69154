package services

import (
	"path/filepath"
	"testing"
	"time"

	"match-prediction-system/cache"
	"match-prediction-system/models"
	"match-prediction-system/realtime"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service graph against a throwaway sqlite file and
// the in-process cache, the same topology main assembles in production.
type testEnv struct {
	DB          *gorm.DB
	Cache       *cache.Memory
	Hub         *realtime.Hub
	Users       *UserService
	Matches     *MatchService
	Predictions *PredictionService
	Leaderboard *LeaderboardService
	Leagues     *LeagueService
	Rewards     *RewardService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Match{},
		&models.Prediction{},
		&models.Reward{},
		&models.League{},
		&models.LeagueMember{},
		&models.LeaderboardEntry{},
	))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	store := cache.NewMemory()
	t.Cleanup(store.Close)

	hub := realtime.NewHub()
	notifier := realtime.NewNotifier(hub)

	users := NewUserService(db)
	predictions := NewPredictionService(db, store, notifier)
	leaderboard := NewLeaderboardService(db, store, notifier)
	matches := NewMatchService(db, store, notifier, predictions, leaderboard)

	return &testEnv{
		DB:          db,
		Cache:       store,
		Hub:         hub,
		Users:       users,
		Matches:     matches,
		Predictions: predictions,
		Leaderboard: leaderboard,
		Leagues:     NewLeagueService(db, store),
		Rewards:     NewRewardService(db),
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.NewString(), Username: username}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createScheduledMatch(t *testing.T, db *gorm.DB, kickoff time.Time) *models.Match {
	t.Helper()
	match := &models.Match{
		ID:        uuid.NewString(),
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		StartTime: kickoff,
		League:    "Premier League",
		Season:    "2026-27",
		Status:    models.MatchStatusScheduled,
	}
	require.NoError(t, db.Create(match).Error)
	return match
}

// finishMatch force-writes a final result, bypassing the lifecycle guards the
// settlement tests are not about.
func finishMatch(t *testing.T, db *gorm.DB, matchID string, home, away int) {
	t.Helper()
	now := time.Now()
	require.NoError(t, db.Model(&models.Match{}).Where("id = ?", matchID).Updates(map[string]any{
		"status":     models.MatchStatusCompleted,
		"home_score": home,
		"away_score": away,
		"end_time":   now,
	}).Error)
}
