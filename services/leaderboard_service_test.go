package services

import (
	"context"
	"testing"

	"match-prediction-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAssignRanks(t *testing.T) {
	scope := []rankedUser{
		{UserID: "a", Points: 30},
		{UserID: "b", Points: 30},
		{UserID: "c", Points: 20},
		{UserID: "d", Points: 10},
	}

	entries := assignRanks(scope, nil)
	require.Len(t, entries, 4)

	ranks := make([]int, len(entries))
	for i, e := range entries {
		ranks[i] = e.Rank
		assert.Nil(t, e.LeagueID)
	}
	// Ties share a rank; the next distinct score takes its positional rank.
	assert.Equal(t, []int{1, 1, 3, 4}, ranks)
}

func TestAssignRanksEmpty(t *testing.T) {
	assert.Empty(t, assignRanks(nil, nil))
}

func seedPoints(t *testing.T, db *gorm.DB, user *models.User, points int64) {
	t.Helper()
	require.NoError(t, db.Model(user).Update("points", points).Error)
}

func TestRefreshLeaderboards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.DB, "alice")
	bob := createTestUser(t, env.DB, "bob")
	carol := createTestUser(t, env.DB, "carol")
	seedPoints(t, env.DB, alice, 30)
	seedPoints(t, env.DB, bob, 30)
	seedPoints(t, env.DB, carol, 20)

	league, err := env.Leagues.CreateLeague(ctx, alice.ID, CreateLeagueInput{Name: "Office Pool"})
	require.NoError(t, err)
	require.NoError(t, env.Leagues.JoinLeague(ctx, carol.ID, league.ID, ""))

	require.NoError(t, env.Leaderboard.RefreshLeaderboards(ctx))

	global, err := env.Leaderboard.GetGlobalLeaderboard(ctx, 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 3, global.Total)
	assert.Equal(t, 1, global.Entries[0].Rank)
	assert.Equal(t, 1, global.Entries[1].Rank)
	assert.Equal(t, 3, global.Entries[2].Rank)
	assert.Equal(t, carol.ID, global.Entries[2].UserID)

	// League scope ranks only its members.
	scoped, err := env.Leaderboard.GetLeagueLeaderboard(ctx, league.ID, 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, scoped.Total)
	assert.Equal(t, alice.ID, scoped.Entries[0].UserID)
	assert.Equal(t, 1, scoped.Entries[0].Rank)
	assert.Equal(t, carol.ID, scoped.Entries[1].UserID)
	assert.Equal(t, 2, scoped.Entries[1].Rank)
	_ = bob
}

func TestRefreshLeaderboardsPrunesDepartedMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := createTestUser(t, env.DB, "owner")
	member := createTestUser(t, env.DB, "member")
	seedPoints(t, env.DB, owner, 50)
	seedPoints(t, env.DB, member, 40)

	league, err := env.Leagues.CreateLeague(ctx, owner.ID, CreateLeagueInput{Name: "Transient"})
	require.NoError(t, err)
	require.NoError(t, env.Leagues.JoinLeague(ctx, member.ID, league.ID, ""))
	require.NoError(t, env.Leaderboard.RefreshLeaderboards(ctx))

	var count int64
	require.NoError(t, env.DB.Model(&models.LeaderboardEntry{}).
		Where("league_id = ?", league.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)

	require.NoError(t, env.Leagues.LeaveLeague(ctx, member.ID, league.ID))
	require.NoError(t, env.Leaderboard.RefreshLeaderboards(ctx))

	var entries []models.LeaderboardEntry
	require.NoError(t, env.DB.Where("league_id = ?", league.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, owner.ID, entries[0].UserID)
}

func TestGetUserRank(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := createTestUser(t, env.DB, "ranked")
	seedPoints(t, env.DB, user, 25)
	require.NoError(t, env.Leaderboard.RefreshLeaderboards(ctx))

	info, err := env.Leaderboard.GetUserRank(ctx, user.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 1, info.Rank)
	assert.EqualValues(t, 25, info.Points)

	// No entry in a scope the user is not part of.
	leagueID := "00000000-0000-0000-0000-000000000000"
	missing, err := env.Leaderboard.GetUserRank(ctx, user.ID, &leagueID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	absent, err := env.Leaderboard.GetUserRank(ctx, "nobody", nil)
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestGlobalLeaderboardReadThroughCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := createTestUser(t, env.DB, "cached")
	seedPoints(t, env.DB, user, 10)
	require.NoError(t, env.Leaderboard.RefreshLeaderboards(ctx))

	first, err := env.Leaderboard.GetGlobalLeaderboard(ctx, 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, first.Total)

	// Stale until a refresh invalidates the namespace.
	newcomer := createTestUser(t, env.DB, "newcomer")
	seedPoints(t, env.DB, newcomer, 99)

	stale, err := env.Leaderboard.GetGlobalLeaderboard(ctx, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stale.Total)

	require.NoError(t, env.Leaderboard.RefreshLeaderboards(ctx))

	fresh, err := env.Leaderboard.GetGlobalLeaderboard(ctx, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, fresh.Total)
	assert.Equal(t, newcomer.ID, fresh.Entries[0].UserID)
}
