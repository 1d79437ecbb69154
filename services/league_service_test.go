package services

import (
	"context"
	"testing"

	"match-prediction-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLeague(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := createTestUser(t, env.DB, "founder")

	league, err := env.Leagues.CreateLeague(ctx, owner.ID, CreateLeagueInput{Name: "Friday Five-a-side"})
	require.NoError(t, err)
	assert.Contains(t, league.Slug, "friday-five-a-side")
	assert.Empty(t, league.InviteCode)

	// The owner is enrolled as the first member.
	var member models.LeagueMember
	require.NoError(t, env.DB.Where("league_id = ? AND user_id = ?", league.ID, owner.ID).First(&member).Error)

	private, err := env.Leagues.CreateLeague(ctx, owner.ID, CreateLeagueInput{Name: "Secret Pool", IsPrivate: true})
	require.NoError(t, err)
	assert.Len(t, private.InviteCode, 8)
}

func TestJoinLeague(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := createTestUser(t, env.DB, "owner")
	joiner := createTestUser(t, env.DB, "joiner")

	public, err := env.Leagues.CreateLeague(ctx, owner.ID, CreateLeagueInput{Name: "Open"})
	require.NoError(t, err)

	require.NoError(t, env.Leagues.JoinLeague(ctx, joiner.ID, public.ID, ""))
	assert.ErrorIs(t, env.Leagues.JoinLeague(ctx, joiner.ID, public.ID, ""), ErrConflict)
	assert.ErrorIs(t, env.Leagues.JoinLeague(ctx, joiner.ID, "missing", ""), ErrNotFound)

	private, err := env.Leagues.CreateLeague(ctx, owner.ID, CreateLeagueInput{Name: "Closed", IsPrivate: true})
	require.NoError(t, err)

	assert.ErrorIs(t, env.Leagues.JoinLeague(ctx, joiner.ID, private.ID, "WRONG"), ErrInvalidState)
	require.NoError(t, env.Leagues.JoinLeague(ctx, joiner.ID, private.ID, private.InviteCode))
}

func TestLeaveLeague(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := createTestUser(t, env.DB, "owner")
	member := createTestUser(t, env.DB, "member")
	outsider := createTestUser(t, env.DB, "outsider")

	league, err := env.Leagues.CreateLeague(ctx, owner.ID, CreateLeagueInput{Name: "Sticky"})
	require.NoError(t, err)
	require.NoError(t, env.Leagues.JoinLeague(ctx, member.ID, league.ID, ""))

	assert.ErrorIs(t, env.Leagues.LeaveLeague(ctx, owner.ID, league.ID), ErrInvalidState)
	assert.ErrorIs(t, env.Leagues.LeaveLeague(ctx, outsider.ID, league.ID), ErrNotFound)

	require.NoError(t, env.Leagues.LeaveLeague(ctx, member.ID, league.ID))
	var count int64
	require.NoError(t, env.DB.Model(&models.LeagueMember{}).
		Where("league_id = ?", league.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteLeague(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := createTestUser(t, env.DB, "owner")
	member := createTestUser(t, env.DB, "member")

	league, err := env.Leagues.CreateLeague(ctx, owner.ID, CreateLeagueInput{Name: "Doomed"})
	require.NoError(t, err)
	require.NoError(t, env.Leagues.JoinLeague(ctx, member.ID, league.ID, ""))
	require.NoError(t, env.Leaderboard.RefreshLeaderboards(ctx))

	assert.ErrorIs(t, env.Leagues.DeleteLeague(ctx, member.ID, league.ID), ErrNotFound)

	require.NoError(t, env.Leagues.DeleteLeague(ctx, owner.ID, league.ID))

	var leagues, members, entries int64
	require.NoError(t, env.DB.Model(&models.League{}).Where("id = ?", league.ID).Count(&leagues).Error)
	require.NoError(t, env.DB.Model(&models.LeagueMember{}).Where("league_id = ?", league.ID).Count(&members).Error)
	require.NoError(t, env.DB.Model(&models.LeaderboardEntry{}).Where("league_id = ?", league.ID).Count(&entries).Error)
	assert.Zero(t, leagues)
	assert.Zero(t, members)
	assert.Zero(t, entries)
}

func TestRegenerateInviteCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := createTestUser(t, env.DB, "owner")

	private, err := env.Leagues.CreateLeague(ctx, owner.ID, CreateLeagueInput{Name: "Rotating", IsPrivate: true})
	require.NoError(t, err)

	code, err := env.Leagues.RegenerateInviteCode(ctx, owner.ID, private.ID)
	require.NoError(t, err)
	assert.Len(t, code, 8)
	assert.NotEqual(t, private.InviteCode, code)

	public, err := env.Leagues.CreateLeague(ctx, owner.ID, CreateLeagueInput{Name: "Open"})
	require.NoError(t, err)
	_, err = env.Leagues.RegenerateInviteCode(ctx, owner.ID, public.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserLeagues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := createTestUser(t, env.DB, "owner")
	member := createTestUser(t, env.DB, "member")

	first, err := env.Leagues.CreateLeague(ctx, owner.ID, CreateLeagueInput{Name: "First"})
	require.NoError(t, err)
	_, err = env.Leagues.CreateLeague(ctx, owner.ID, CreateLeagueInput{Name: "Second"})
	require.NoError(t, err)
	require.NoError(t, env.Leagues.JoinLeague(ctx, member.ID, first.ID, ""))

	mine, err := env.Leagues.GetUserLeagues(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	owned, err := env.Leagues.GetUserLeagues(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)
}
