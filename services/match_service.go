// services/match_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"match-prediction-system/cache"
	"match-prediction-system/models"
	"match-prediction-system/realtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MatchService struct {
	DB          *gorm.DB
	Cache       cache.Store
	Notifier    *realtime.Notifier
	Predictions *PredictionService
	Leaderboard *LeaderboardService
}

func NewMatchService(db *gorm.DB, store cache.Store, notifier *realtime.Notifier,
	predictions *PredictionService, leaderboard *LeaderboardService) *MatchService {
	return &MatchService{
		DB:          db,
		Cache:       store,
		Notifier:    notifier,
		Predictions: predictions,
		Leaderboard: leaderboard,
	}
}

type CreateMatchInput struct {
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	StartTime time.Time `json:"start_time"`
	League    string    `json:"league"`
	Season    string    `json:"season"`
}

type UpdateMatchInput struct {
	HomeScore *int                `json:"home_score"`
	AwayScore *int                `json:"away_score"`
	Status    *models.MatchStatus `json:"status"`
	EndTime   *time.Time          `json:"end_time"`
}

type MatchPage struct {
	Matches []models.Match `json:"matches"`
	Total   int64          `json:"total"`
}

// statusOrder encodes the one-directional SCHEDULED → LIVE → COMPLETED chain.
var statusOrder = map[models.MatchStatus]int{
	models.MatchStatusScheduled: 0,
	models.MatchStatusLive:      1,
	models.MatchStatusCompleted: 2,
}

func validTransition(from, to models.MatchStatus) bool {
	if from == to {
		return true
	}
	if to == models.MatchStatusCancelled {
		// Terminal, reachable from anything not already finished.
		return from == models.MatchStatusScheduled || from == models.MatchStatusLive
	}
	fromOrd, okFrom := statusOrder[from]
	toOrd, okTo := statusOrder[to]
	return okFrom && okTo && toOrd > fromOrd
}

func (s *MatchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	match := models.Match{
		ID:        uuid.NewString(),
		HomeTeam:  input.HomeTeam,
		AwayTeam:  input.AwayTeam,
		StartTime: input.StartTime,
		League:    input.League,
		Season:    input.Season,
		Status:    models.MatchStatusScheduled,
	}
	if err := s.DB.WithContext(ctx).Create(&match).Error; err != nil {
		return nil, err
	}

	invalidatePatterns(ctx, s.Cache, cache.PatternMatches, cache.PatternHTTPMatches)
	return &match, nil
}

func (s *MatchService) GetMatchByID(ctx context.Context, id string) (*models.Match, error) {
	var match models.Match
	if err := s.DB.WithContext(ctx).First(&match, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: match %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &match, nil
}

func (s *MatchService) GetUpcomingMatches(ctx context.Context, limit, offset int) (*MatchPage, error) {
	return s.page(ctx,
		s.DB.WithContext(ctx).Model(&models.Match{}).
			Where("start_time > ? AND status = ?", time.Now(), models.MatchStatusScheduled),
		"start_time ASC", limit, offset)
}

func (s *MatchService) GetLiveMatches(ctx context.Context, limit, offset int) (*MatchPage, error) {
	return s.page(ctx,
		s.DB.WithContext(ctx).Model(&models.Match{}).Where("status = ?", models.MatchStatusLive),
		"start_time ASC", limit, offset)
}

func (s *MatchService) GetCompletedMatches(ctx context.Context, limit, offset int) (*MatchPage, error) {
	return s.page(ctx,
		s.DB.WithContext(ctx).Model(&models.Match{}).Where("status = ?", models.MatchStatusCompleted),
		"end_time DESC", limit, offset)
}

func (s *MatchService) GetMatchesByLeague(ctx context.Context, league string, limit, offset int) (*MatchPage, error) {
	return s.page(ctx,
		s.DB.WithContext(ctx).Model(&models.Match{}).Where("league = ?", league),
		"start_time DESC", limit, offset)
}

func (s *MatchService) GetMatchesBySeason(ctx context.Context, season string, limit, offset int) (*MatchPage, error) {
	return s.page(ctx,
		s.DB.WithContext(ctx).Model(&models.Match{}).Where("season = ?", season),
		"start_time DESC", limit, offset)
}

func (s *MatchService) page(ctx context.Context, db *gorm.DB, order string, limit, offset int) (*MatchPage, error) {
	var page MatchPage
	if err := db.Count(&page.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Order(order).Limit(limit).Offset(offset).Find(&page.Matches).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateMatch applies score/status changes, enforcing the one-directional
// lifecycle. Completing a match requires both scores; a COMPLETED or
// CANCELLED match accepts no further changes.
func (s *MatchService) UpdateMatch(ctx context.Context, id string, input UpdateMatchInput) (*models.Match, error) {
	var match models.Match

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&match, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: match %s", ErrNotFound, id)
			}
			return err
		}
		if match.Status == models.MatchStatusCompleted || match.Status == models.MatchStatusCancelled {
			return fmt.Errorf("%w: match is already %s", ErrInvalidState, match.Status)
		}

		if input.HomeScore != nil {
			match.HomeScore = input.HomeScore
		}
		if input.AwayScore != nil {
			match.AwayScore = input.AwayScore
		}
		if input.EndTime != nil {
			match.EndTime = input.EndTime
		}
		if input.Status != nil {
			if !validTransition(match.Status, *input.Status) {
				return fmt.Errorf("%w: cannot transition %s → %s", ErrInvalidState, match.Status, *input.Status)
			}
			if *input.Status == models.MatchStatusCompleted && !match.HasResult() {
				return fmt.Errorf("%w: completing a match requires both scores", ErrInvalidState)
			}
			match.Status = *input.Status
		}

		return tx.Save(&match).Error
	})
	if err != nil {
		return nil, err
	}

	invalidatePatterns(ctx, s.Cache, cache.PatternMatches, cache.PatternHTTPMatches)
	s.Notifier.NotifyMatchUpdate(&match)

	return &match, nil
}

// FinalizeResult runs the whole settlement pipeline for a finished match, in
// causal order:
//
//  1. record the result and flip the match to COMPLETED (own transaction)
//  2. settle predictions (scoring transaction; typed errors propagate)
//  3. refresh leaderboards (own transaction, strictly after scoring commits)
//  4. announce the applied result (cache work already done by steps 2–3)
//
// Cache invalidation and notifications inside each step are best-effort and
// never roll back committed state.
func (s *MatchService) FinalizeResult(ctx context.Context, id string, homeScore, awayScore int) (*models.Match, int, error) {
	now := time.Now()
	status := models.MatchStatusCompleted
	match, err := s.UpdateMatch(ctx, id, UpdateMatchInput{
		HomeScore: &homeScore,
		AwayScore: &awayScore,
		Status:    &status,
		EndTime:   &now,
	})
	if err != nil {
		return nil, 0, err
	}

	processed, err := s.Predictions.CalculatePoints(ctx, id)
	if err != nil {
		return nil, 0, fmt.Errorf("settling predictions for match %s: %w", id, err)
	}

	if err := s.Leaderboard.RefreshLeaderboards(ctx); err != nil {
		return nil, 0, fmt.Errorf("refreshing leaderboards after match %s: %w", id, err)
	}

	s.Notifier.NotifyMatchResultApplied(match, processed)
	log.Printf("✅ [MATCH] Result applied for %s (%d–%d), %d prediction(s) settled",
		id, homeScore, awayScore, processed)

	return match, processed, nil
}
