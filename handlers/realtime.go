// handlers/realtime.go
package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"match-prediction-system/middleware"
	"match-prediction-system/realtime"

	"github.com/gofiber/fiber/v2"
)

// SetupRealtimeRoutes registers the SSE bridge onto the in-process event hub.
// Clients pick rooms with ?matches=<id,...>&leagues=<id,...>; the user's own
// room and the global room are always included.
func SetupRealtimeRoutes(app *fiber.App, hub *realtime.Hub) {
	events := app.Group("/events", middleware.UserContextMiddleware())

	events.Get("/stream", func(c *fiber.Ctx) error {
		scopes := []string{realtime.ScopeGlobal, realtime.UserScope(userID(c))}
		for _, id := range splitIDs(c.Query("matches")) {
			scopes = append(scopes, realtime.MatchScope(id))
		}
		for _, id := range splitIDs(c.Query("leagues")) {
			scopes = append(scopes, realtime.LeagueScope(id))
		}

		// SSE headers
		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no") // nginx

		uid := userID(c)
		ch, cancel := hub.Subscribe(scopes...)

		// Use fasthttp stream writer (THIS replaces Flush)
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer cancel()

			keepalive := time.NewTicker(15 * time.Second)
			defer keepalive.Stop()

			// Initial keepalive (comment event)
			w.WriteString(":\n\n")
			if err := w.Flush(); err != nil {
				return
			}

			for {
				select {
				case ev := <-ch:
					payload, err := json.Marshal(ev.Payload)
					if err != nil {
						log.Printf("⚠️ [SSE] Marshal error for user %s: %v", uid, err)
						continue
					}

					fmt.Fprintf(w,
						"event: %s\ndata: %s\n\n",
						ev.Name, payload,
					)

					// This is the REAL "flush"
					if err := w.Flush(); err != nil {
						// Client disconnected
						return
					}

				case <-keepalive.C:
					w.WriteString(":\n\n")
					if err := w.Flush(); err != nil {
						return
					}

				case <-c.Context().Done():
					// Client closed connection
					return
				}
			}
		})

		return nil
	})
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
