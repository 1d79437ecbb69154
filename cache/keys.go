// cache/keys.go
package cache

import "fmt"

// Key scheme is <domain>:<scope>:<params>. The HTTP response middleware adds
// its own "cache:<method>:<url>" namespace on top.

func GlobalLeaderboardKey(limit, offset int) string {
	return fmt.Sprintf("leaderboard:global:%d:%d", limit, offset)
}

func LeagueLeaderboardKey(leagueID string, limit, offset int) string {
	return fmt.Sprintf("leaderboard:league:%s:%d:%d", leagueID, limit, offset)
}

func UserGlobalRankKey(userID string) string {
	return fmt.Sprintf("leaderboard:user:%s:global", userID)
}

func UserLeagueRankKey(userID, leagueID string) string {
	return fmt.Sprintf("leaderboard:user:%s:league:%s", userID, leagueID)
}

func UserPredictionsKey(userID string, limit, offset int) string {
	return fmt.Sprintf("predictions:user:%s:%d:%d", userID, limit, offset)
}

func MatchPredictionsKey(matchID string, limit, offset int) string {
	return fmt.Sprintf("predictions:match:%s:%d:%d", matchID, limit, offset)
}

// Invalidation patterns. Over-matching only costs a cache miss.
const (
	PatternLeaderboard     = "leaderboard:*"
	PatternPredictions     = "predictions:*"
	PatternLeagues         = "leagues:*"
	PatternMatches         = "matches:*"
	PatternHTTPLeaderboard = "cache:*leaderboard*"
	PatternHTTPPredictions = "cache:*predictions*"
	PatternHTTPLeagues     = "cache:*leagues*"
	PatternHTTPMatches     = "cache:*matches*"
)

func MatchPredictionsPattern(matchID string) string {
	return fmt.Sprintf("predictions:match:%s:*", matchID)
}

func LeaguePattern(leagueID string) string {
	return fmt.Sprintf("leagues:%s:*", leagueID)
}
