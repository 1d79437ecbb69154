// services/league_service.go
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"match-prediction-system/cache"
	"match-prediction-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type LeagueService struct {
	DB    *gorm.DB
	Cache cache.Store
}

func NewLeagueService(db *gorm.DB, store cache.Store) *LeagueService {
	return &LeagueService{DB: db, Cache: store}
}

type CreateLeagueInput struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
}

type LeaguePage struct {
	Leagues []models.League `json:"leagues"`
	Total   int64           `json:"total"`
}

func newInviteCode() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return strings.ToUpper(hex.EncodeToString(buf))
}

// CreateLeague creates the league and enrolls the owner as its first member.
// Private leagues get an invite code; the slug doubles as a stable URL handle.
func (s *LeagueService) CreateLeague(ctx context.Context, ownerID string, input CreateLeagueInput) (*models.League, error) {
	league := models.League{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Slug:      fmt.Sprintf("%s-%s", slug.Make(input.Name), newInviteCode()[:4]),
		OwnerID:   ownerID,
		IsPrivate: input.IsPrivate,
	}
	if input.IsPrivate {
		league.InviteCode = newInviteCode()
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&league).Error; err != nil {
			return err
		}
		return tx.Create(&models.LeagueMember{LeagueID: league.ID, UserID: ownerID}).Error
	})
	if err != nil {
		return nil, err
	}

	invalidatePatterns(ctx, s.Cache, cache.PatternLeagues, cache.PatternHTTPLeagues)
	return &league, nil
}

func (s *LeagueService) GetLeagueByID(ctx context.Context, id string) (*models.League, error) {
	var league models.League
	if err := s.DB.WithContext(ctx).Preload("Owner").First(&league, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: league %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &league, nil
}

func (s *LeagueService) GetPublicLeagues(ctx context.Context, limit, offset int) (*LeaguePage, error) {
	var page LeaguePage
	db := s.DB.WithContext(ctx).Model(&models.League{}).Where("is_private = ?", false)
	if err := db.Count(&page.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Owner").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&page.Leagues).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *LeagueService) GetUserLeagues(ctx context.Context, userID string) ([]models.League, error) {
	var leagues []models.League
	err := s.DB.WithContext(ctx).
		Joins("JOIN league_members lm ON lm.league_id = leagues.id").
		Where("lm.user_id = ?", userID).
		Preload("Owner").
		Find(&leagues).Error
	return leagues, err
}

// JoinLeague adds the user; private leagues require the invite code. Joining
// twice is a Conflict.
func (s *LeagueService) JoinLeague(ctx context.Context, userID, leagueID, inviteCode string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var league models.League
		if err := tx.First(&league, "id = ?", leagueID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
			}
			return err
		}

		var existing models.LeagueMember
		err := tx.Where("league_id = ? AND user_id = ?", leagueID, userID).First(&existing).Error
		if err == nil {
			return fmt.Errorf("%w: user is already a member of this league", ErrConflict)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if league.IsPrivate && inviteCode != league.InviteCode {
			return fmt.Errorf("%w: invalid invite code", ErrInvalidState)
		}

		return tx.Create(&models.LeagueMember{LeagueID: leagueID, UserID: userID}).Error
	})
	if err != nil {
		return err
	}

	s.invalidateMembership(ctx, leagueID, userID)
	return nil
}

// LeaveLeague removes the membership. The owner cannot leave their own
// league; they delete it instead. The leaderboard refresh prunes the member's
// stale entry; the immediate invalidation keeps it out of cached reads.
func (s *LeagueService) LeaveLeague(ctx context.Context, userID, leagueID string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var league models.League
		if err := tx.First(&league, "id = ?", leagueID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
			}
			return err
		}
		if league.OwnerID == userID {
			return fmt.Errorf("%w: league owner cannot leave the league", ErrInvalidState)
		}

		res := tx.Where("league_id = ? AND user_id = ?", leagueID, userID).Delete(&models.LeagueMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: user is not a member of this league", ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateMembership(ctx, leagueID, userID)
	return nil
}

// DeleteLeague removes a league the caller owns, along with its memberships
// and leaderboard entries.
func (s *LeagueService) DeleteLeague(ctx context.Context, userID, leagueID string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var league models.League
		if err := tx.Where("id = ? AND owner_id = ?", leagueID, userID).First(&league).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: league not found or user is not the owner", ErrNotFound)
			}
			return err
		}

		if err := tx.Where("league_id = ?", leagueID).Delete(&models.LeagueMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("league_id = ?", leagueID).Delete(&models.LeaderboardEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&league).Error
	})
	if err != nil {
		return err
	}

	invalidatePatterns(ctx, s.Cache,
		cache.PatternLeagues,
		cache.PatternLeaderboard,
		cache.PatternHTTPLeagues,
		cache.PatternHTTPLeaderboard,
	)
	return nil
}

// RegenerateInviteCode rotates a private league's invite code.
func (s *LeagueService) RegenerateInviteCode(ctx context.Context, userID, leagueID string) (string, error) {
	code := newInviteCode()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var league models.League
		if err := tx.Where("id = ? AND owner_id = ? AND is_private = ?", leagueID, userID, true).
			First(&league).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: league not found or not private", ErrNotFound)
			}
			return err
		}
		league.InviteCode = code
		return tx.Save(&league).Error
	})
	if err != nil {
		return "", err
	}

	invalidatePatterns(ctx, s.Cache, cache.LeaguePattern(leagueID), cache.PatternHTTPLeagues)
	return code, nil
}

func (s *LeagueService) invalidateMembership(ctx context.Context, leagueID, userID string) {
	invalidatePatterns(ctx, s.Cache,
		cache.LeaguePattern(leagueID),
		fmt.Sprintf("leagues:user:%s:*", userID),
		cache.PatternLeaderboard,
		cache.PatternHTTPLeagues,
		cache.PatternHTTPLeaderboard,
	)
}
