// middleware/cache.go
package middleware

import (
	"log"
	"time"

	"match-prediction-system/cache"

	"github.com/gofiber/fiber/v2"
)

// CacheMiddleware serves GET responses from the cache store under
// "cache:GET:<url>" keys. Mutation paths invalidate these with the
// "cache:*<domain>*" patterns, so TTL is only a backstop.
func CacheMiddleware(store cache.Store, ttl time.Duration) fiber.Handler {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet {
			return c.Next()
		}

		key := "cache:GET:" + c.OriginalURL()
		ctx := c.UserContext()

		cached, hit, err := store.Get(ctx, key)
		if err != nil {
			log.Printf("⚠️ [CACHE] Middleware read failed for %s: %v", key, err)
		} else if hit {
			if raw, ok := cached.(string); ok {
				c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
				return c.SendString(raw)
			}
			return c.JSON(cached)
		}

		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == fiber.StatusOK {
			body := make([]byte, len(c.Response().Body()))
			copy(body, c.Response().Body())
			if err := store.Set(ctx, key, string(body), ttl); err != nil {
				log.Printf("⚠️ [CACHE] Middleware write failed for %s: %v", key, err)
			}
		}
		return nil
	}
}
