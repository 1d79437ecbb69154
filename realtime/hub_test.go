package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertSilent(t *testing.T, ch <-chan Event) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %q on %s", ev.Name, ev.Scope)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubScopeIsolation(t *testing.T) {
	hub := NewHub()

	m1, cancel1 := hub.Subscribe(MatchScope("m1"))
	defer cancel1()
	m2, cancel2 := hub.Subscribe(MatchScope("m2"))
	defer cancel2()

	hub.Publish(MatchScope("m1"), EventMatchUpdate, map[string]any{"id": "m1"})

	ev := receive(t, m1)
	assert.Equal(t, EventMatchUpdate, ev.Name)
	assert.Equal(t, MatchScope("m1"), ev.Scope)

	assertSilent(t, m2)
}

func TestHubGlobalReachesEveryRoom(t *testing.T) {
	hub := NewHub()

	user, cancelUser := hub.Subscribe(UserScope("u1"))
	defer cancelUser()
	global, cancelGlobal := hub.Subscribe(ScopeGlobal)
	defer cancelGlobal()

	hub.Publish(ScopeGlobal, EventLeaderboardUpdated, nil)

	assert.Equal(t, EventLeaderboardUpdated, receive(t, user).Name)
	assert.Equal(t, EventLeaderboardUpdated, receive(t, global).Name)
}

func TestHubPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	// Fire-and-forget: no subscribers, no panic, no block.
	hub.Publish(MatchScope("nobody"), EventMatchUpdate, nil)
}

func TestHubCancelStopsDelivery(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe(LeagueScope("l1"))
	cancel()

	hub.Publish(LeagueScope("l1"), EventLeaderboardUpdated, nil)
	assertSilent(t, ch)
}

func TestHubMultiScopeSubscription(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe(UserScope("u1"), MatchScope("m1"))
	defer cancel()

	hub.Publish(UserScope("u1"), EventPointsAwarded, map[string]any{"points": 3})
	hub.Publish(MatchScope("m1"), EventMatchResultApplied, nil)

	first := receive(t, ch)
	second := receive(t, ch)
	names := []string{first.Name, second.Name}
	assert.Contains(t, names, EventPointsAwarded)
	assert.Contains(t, names, EventMatchResultApplied)
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe(MatchScope("busy"))
	defer cancel()

	// Overflow the buffer; the extra publishes are dropped, never blocked on.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			hub.Publish(MatchScope("busy"), EventMatchUpdate, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	require.NotEmpty(t, ch)
}
