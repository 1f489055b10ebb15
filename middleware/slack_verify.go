package middleware

import (
	"log"
	"net/http"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/slack-go/slack"
)

// SlackVerifyMiddleware authenticates every inbound webhook with Slack's
// signing secret (v0 HMAC over timestamp + raw body). Requests that fail
// verification never reach a handler.
func SlackVerifyMiddleware() fiber.Handler {
	secret := os.Getenv("SLACK_SIGNING_SECRET")
	if secret == "" {
		log.Fatal("❌ SLACK_SIGNING_SECRET is not set — cannot authenticate Slack requests")
	}

	return func(c *fiber.Ctx) error {
		header := http.Header{}
		header.Set("X-Slack-Signature", c.Get("X-Slack-Signature"))
		header.Set("X-Slack-Request-Timestamp", c.Get("X-Slack-Request-Timestamp"))

		verifier, err := slack.NewSecretsVerifier(header, secret)
		if err != nil {
			log.Printf("🚫 [SLACK_AUTH] bad signature headers for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid request signature",
			})
		}
		if _, err := verifier.Write(c.Body()); err != nil {
			log.Printf("🚫 [SLACK_AUTH] verifier write failed for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid request signature",
			})
		}
		if err := verifier.Ensure(); err != nil {
			log.Printf("🚫 [SLACK_AUTH] signature mismatch for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid request signature",
			})
		}
		return c.Next()
	}
}
