// realtime/hub.go
package realtime

import (
	"fmt"
	"log"
	"sync"
)

// Scope identifiers are opaque room names the fanout routes on.
const ScopeGlobal = "global"

func UserScope(userID string) string     { return fmt.Sprintf("user:%s", userID) }
func MatchScope(matchID string) string   { return fmt.Sprintf("match:%s", matchID) }
func LeagueScope(leagueID string) string { return fmt.Sprintf("league:%s", leagueID) }

// Event names pushed to subscribers.
const (
	EventMatchResultApplied  = "match-result-applied"
	EventMatchUpdate         = "match-update"
	EventNewPrediction       = "new-prediction"
	EventPredictionConfirmed = "prediction-confirmed"
	EventPointsAwarded       = "points-awarded"
	EventLeaderboardUpdated  = "leaderboard-updated"
)

// Publisher is what the services see. Publishing is fire-and-forget: a failed
// or dropped delivery is logged, never returned, so a committed state change
// can never be rolled back by its notification.
type Publisher interface {
	Publish(scope, event string, payload any)
}

// Event is one message delivered to a subscriber.
type Event struct {
	Scope   string `json:"-"`
	Name    string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Hub is an in-process fanout keyed by scope. The SSE handler bridges it to
// clients; everything global-scoped is also delivered to every room so a
// client listening on its own scopes still sees global announcements.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a buffered channel on the given scopes. The returned
// cancel func must be called when the client goes away.
func (h *Hub) Subscribe(scopes ...string) (<-chan Event, func()) {
	ch := make(chan Event, 16)
	h.mu.Lock()
	for _, scope := range scopes {
		room, ok := h.rooms[scope]
		if !ok {
			room = make(map[chan Event]struct{})
			h.rooms[scope] = room
		}
		room[ch] = struct{}{}
	}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		for _, scope := range scopes {
			if room, ok := h.rooms[scope]; ok {
				delete(room, ch)
				if len(room) == 0 {
					delete(h.rooms, scope)
				}
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber of scope. Slow subscribers
// are skipped rather than blocking the pipeline.
func (h *Hub) Publish(scope, event string, payload any) {
	ev := Event{Scope: scope, Name: event, Payload: payload}

	h.mu.RLock()
	targets := make([]chan Event, 0, 8)
	for ch := range h.rooms[scope] {
		targets = append(targets, ch)
	}
	if scope == ScopeGlobal {
		for room, subs := range h.rooms {
			if room == ScopeGlobal {
				continue
			}
			for ch := range subs {
				targets = append(targets, ch)
			}
		}
	}
	h.mu.RUnlock()

	for _, ch := range targets {
		select {
		case ch <- ev:
		default:
			log.Printf("⚠️ [REALTIME] Dropped %q event for slow subscriber on %s", event, scope)
		}
	}
}
