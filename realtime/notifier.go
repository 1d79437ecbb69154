// realtime/notifier.go
package realtime

import (
	"log"
	"time"

	"match-prediction-system/models"
)

// Notifier translates business events into scoped publishes. All methods are
// best-effort and safe to call after a transaction has committed.
type Notifier struct {
	Events Publisher
}

func NewNotifier(events Publisher) *Notifier {
	return &Notifier{Events: events}
}

func (n *Notifier) NotifyMatchUpdate(match *models.Match) {
	n.Events.Publish(MatchScope(match.ID), EventMatchUpdate, match)
}

func (n *Notifier) NotifyMatchResultApplied(match *models.Match, processed int) {
	n.Events.Publish(MatchScope(match.ID), EventMatchResultApplied, map[string]any{
		"match_id":              match.ID,
		"home_score":            match.HomeScore,
		"away_score":            match.AwayScore,
		"predictions_processed": processed,
	})
}

func (n *Notifier) NotifyPredictionMade(pred *models.Prediction, username string) {
	n.Events.Publish(MatchScope(pred.MatchID), EventNewPrediction, map[string]any{
		"match_id":  pred.MatchID,
		"username":  username,
		"timestamp": pred.CreatedAt,
	})
	n.Events.Publish(UserScope(pred.UserID), EventPredictionConfirmed, pred)
}

func (n *Notifier) NotifyPointsAwarded(userID, predictionID, matchID string, points int) {
	n.Events.Publish(UserScope(userID), EventPointsAwarded, map[string]any{
		"prediction_id": predictionID,
		"match_id":      matchID,
		"points":        points,
	})
}

// NotifyLeaderboardUpdated targets one league room, or the global room when
// leagueID is nil.
func (n *Notifier) NotifyLeaderboardUpdated(leagueID *string) {
	payload := map[string]any{"timestamp": time.Now().UTC()}
	if leagueID != nil {
		payload["league_id"] = *leagueID
		n.Events.Publish(LeagueScope(*leagueID), EventLeaderboardUpdated, payload)
		return
	}
	log.Printf("📣 [REALTIME] Broadcasting global leaderboard update")
	n.Events.Publish(ScopeGlobal, EventLeaderboardUpdated, payload)
}
