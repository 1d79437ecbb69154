// services/reward_service.go
package services

import (
	"context"

	"match-prediction-system/models"

	"gorm.io/gorm"
)

type RewardService struct {
	DB *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

type RewardPage struct {
	Rewards []models.Reward `json:"rewards"`
	Total   int64           `json:"total"`
}

// GetUserRewards lists a user's reward history newest-first.
func (s *RewardService) GetUserRewards(ctx context.Context, userID string, limit, offset int) (*RewardPage, error) {
	var page RewardPage
	db := s.DB.WithContext(ctx).Model(&models.Reward{}).Where("user_id = ?", userID)
	if err := db.Count(&page.Total).Error; err != nil {
		return nil, err
	}
	err := db.Preload("Prediction").Preload("Prediction.Match").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&page.Rewards).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetRecentRewards lists the latest rewards across all users.
func (s *RewardService) GetRecentRewards(ctx context.Context, limit, offset int) (*RewardPage, error) {
	var page RewardPage
	db := s.DB.WithContext(ctx).Model(&models.Reward{})
	if err := db.Count(&page.Total).Error; err != nil {
		return nil, err
	}
	err := db.Preload("User").Preload("Prediction").Preload("Prediction.Match").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&page.Rewards).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetMatchRewards lists rewards earned from one match's predictions.
func (s *RewardService) GetMatchRewards(ctx context.Context, matchID string, limit, offset int) (*RewardPage, error) {
	var page RewardPage
	db := s.DB.WithContext(ctx).Model(&models.Reward{}).
		Joins("JOIN predictions p ON p.id = rewards.prediction_id").
		Where("p.match_id = ?", matchID)
	if err := db.Count(&page.Total).Error; err != nil {
		return nil, err
	}
	err := db.Preload("User").Preload("Prediction").
		Order("rewards.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&page.Rewards).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}
