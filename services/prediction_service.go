// services/prediction_service.go
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

type PredictionService struct {
	DB       *gorm.DB
	Cache    cache.Store
	Notifier *realtime.Notifier
}

func NewPredictionService(db *gorm.DB, store cache.Store, notifier *realtime.Notifier) *PredictionService {
	return &PredictionService{DB: db, Cache: store, Notifier: notifier}
}

type CreatePredictionInput struct {
	MatchID   string `json:"match_id"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
}

type PredictionPage struct {
	Predictions []models.Prediction `json:"predictions"`
	Total       int64               `json:"total"`
}

// pointsAward is collected inside the settlement transaction and published
// only after it commits.
type pointsAward struct {
	UserID       string
	PredictionID string
	Points       int
}

// CreatePrediction upserts the (user, match) prediction. Only SCHEDULED
// matches that have not kicked off accept predictions.
func (s *PredictionService) CreatePrediction(ctx context.Context, userID string, input CreatePredictionInput) (*models.Prediction, error) {
	var prediction models.Prediction
	var username string

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var match models.Match
		if err := tx.First(&match, "id = ?", input.MatchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: match %s", ErrNotFound, input.MatchID)
			}
			return err
		}
		if match.Status != models.MatchStatusScheduled {
			return fmt.Errorf("%w: match has already started or ended", ErrInvalidState)
		}
		if !time.Now().Before(match.StartTime) {
			return fmt.Errorf("%w: too late to make a prediction", ErrInvalidState)
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotFound, userID)
			}
			return err
		}
		username = user.Username

		var existing models.Prediction
		err := tx.Where("user_id = ? AND match_id = ?", userID, input.MatchID).First(&existing).Error
		switch {
		case err == nil:
			existing.HomeScore = input.HomeScore
			existing.AwayScore = input.AwayScore
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			prediction = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			prediction = models.Prediction{
				ID:        uuid.NewString(),
				UserID:    userID,
				MatchID:   input.MatchID,
				HomeScore: input.HomeScore,
				AwayScore: input.AwayScore,
				Status:    models.PredictionStatusPending,
			}
			if err := tx.Create(&prediction).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidatePatterns(ctx, s.Cache,
		cache.MatchPredictionsPattern(input.MatchID),
		fmt.Sprintf("predictions:user:%s:*", userID),
		cache.PatternHTTPPredictions,
	)
	s.Notifier.NotifyPredictionMade(&prediction, username)

	return &prediction, nil
}

// GetUserPredictions returns a user's predictions newest-first.
func (s *PredictionService) GetUserPredictions(ctx context.Context, userID string, limit, offset int) (*PredictionPage, error) {
	key := cache.UserPredictionsKey(userID, limit, offset)
	var page PredictionPage
	if hit, err := s.Cache.GetJSON(ctx, key, &page); err != nil {
		log.Printf("⚠️ [CACHE] Read failed for %s: %v", key, err)
	} else if hit {
		return &page, nil
	}

	db := s.DB.WithContext(ctx).Model(&models.Prediction{}).Where("user_id = ?", userID)
	if err := db.Count(&page.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Match").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&page.Predictions).Error; err != nil {
		return nil, err
	}

	if err := s.Cache.Set(ctx, key, page, 5*time.Minute); err != nil {
		log.Printf("⚠️ [CACHE] Write failed for %s: %v", key, err)
	}
	return &page, nil
}

// GetMatchPredictions returns every prediction for a match oldest-first.
func (s *PredictionService) GetMatchPredictions(ctx context.Context, matchID string, limit, offset int) (*PredictionPage, error) {
	key := cache.MatchPredictionsKey(matchID, limit, offset)
	var page PredictionPage
	if hit, err := s.Cache.GetJSON(ctx, key, &page); err != nil {
		log.Printf("⚠️ [CACHE] Read failed for %s: %v", key, err)
	} else if hit {
		return &page, nil
	}

	db := s.DB.WithContext(ctx).Model(&models.Prediction{}).Where("match_id = ?", matchID)
	if err := db.Count(&page.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("User").
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&page.Predictions).Error; err != nil {
		return nil, err
	}

	if err := s.Cache.Set(ctx, key, page, 5*time.Minute); err != nil {
		log.Printf("⚠️ [CACHE] Write failed for %s: %v", key, err)
	}
	return &page, nil
}

// CalculatePoints settles every PENDING prediction of a completed match in
// one transaction: persist points, flip PENDING → CALCULATED, write a Reward
// per positive score and bump the owner's total. Re-running is a no-op since
// the pass only ever selects PENDING rows. Returns the number of predictions
// processed.
//
// The caller is responsible for refreshing leaderboards strictly after this
// returns; prediction-cache invalidation and the points-awarded events fire
// here, after commit, in that order.
func (s *PredictionService) CalculatePoints(ctx context.Context, matchID string) (int, error) {
	var awards []pointsAward

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var match models.Match
		if err := tx.First(&match, "id = ?", matchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: match %s", ErrNotFound, matchID)
			}
			return err
		}
		if match.Status != models.MatchStatusCompleted {
			return fmt.Errorf("%w: match is not completed yet", ErrInvalidState)
		}
		if !match.HasResult() {
			return fmt.Errorf("%w: match result not available", ErrInvalidState)
		}

		var predictions []models.Prediction
		if err := tx.Where("match_id = ? AND status = ?", matchID, models.PredictionStatusPending).
			Find(&predictions).Error; err != nil {
			return err
		}

		for i := range predictions {
			pred := &predictions[i]
			points, description := ScorePrediction(pred.HomeScore, pred.AwayScore, *match.HomeScore, *match.AwayScore)

			pred.Points = points
			pred.Status = models.PredictionStatusCalculated
			if err := tx.Save(pred).Error; err != nil {
				return err
			}

			if points > 0 {
				reward := models.Reward{
					ID:           uuid.NewString(),
					UserID:       pred.UserID,
					PredictionID: pred.ID,
					Points:       points,
					Description:  description,
				}
				if err := tx.Create(&reward).Error; err != nil {
					return err
				}
				if err := tx.Model(&models.User{}).
					Where("id = ?", pred.UserID).
					UpdateColumn("points", gorm.Expr("points + ?", points)).Error; err != nil {
					return err
				}
			}

			awards = append(awards, pointsAward{
				UserID:       pred.UserID,
				PredictionID: pred.ID,
				Points:       points,
			})
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// Invalidation happens-before the notifications so a client re-reading on
	// an event always recomputes.
	invalidatePatterns(ctx, s.Cache,
		cache.MatchPredictionsPattern(matchID),
		"predictions:user:*",
		cache.PatternLeaderboard,
		cache.PatternHTTPPredictions,
		cache.PatternHTTPLeaderboard,
	)
	for _, a := range awards {
		s.Notifier.NotifyPointsAwarded(a.UserID, a.PredictionID, matchID, a.Points)
	}

	log.Printf("🏁 [SCORING] Match %s settled: %d prediction(s) processed", matchID, len(awards))
	return len(awards), nil
}
