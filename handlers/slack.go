package handlers

import (
	"encoding/json"
	"log"
	"strings"

	"pingpong-bot/services"

	"github.com/gofiber/fiber/v2"
	"github.com/slack-go/slack"
)

// SetupSlackRoutes wires the two Slack webhook endpoints. Payloads are
// decoded here, once, into the typed events the MatchService consumes.
func SetupSlackRoutes(app *fiber.App, matchService *services.MatchService) {
	app.Post("/slack/commands", handleSlashCommand(matchService))
	app.Post("/slack/events", handleInteraction(matchService))
}

// handleSlashCommand handles the `/pingpong` command form payload. Slack
// expects a 200 within 3 seconds; anything user-facing goes out through the
// response_url, so the body here stays empty.
func handleSlashCommand(matchService *services.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ev := services.IssueChallengeEvent{
			Text:        c.FormValue("text"),
			UserID:      c.FormValue("user_id"),
			ChannelID:   c.FormValue("channel_id"),
			TriggerID:   c.FormValue("trigger_id"),
			ResponseURL: c.FormValue("response_url"),
		}
		if err := matchService.IssueChallenge(ev); err != nil {
			log.Printf("❌ [SLACK] slash command failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		}
		return c.SendStatus(fiber.StatusOK)
	}
}

// handleInteraction handles interactivity callbacks: button clicks
// (block_actions) and modal submissions (view_submission). The payload
// arrives as a JSON document in the `payload` form field.
func handleInteraction(matchService *services.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cb slack.InteractionCallback
		if err := json.Unmarshal([]byte(c.FormValue("payload")), &cb); err != nil {
			log.Printf("❌ [SLACK] bad interaction payload: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		}

		switch cb.Type {
		case slack.InteractionTypeBlockActions:
			return dispatchBlockAction(c, matchService, &cb)
		case slack.InteractionTypeViewSubmission:
			return dispatchViewSubmission(c, matchService, &cb)
		default:
			// Unhandled interaction types are acked so Slack stops retrying.
			return c.SendStatus(fiber.StatusOK)
		}
	}
}

func dispatchBlockAction(c *fiber.Ctx, matchService *services.MatchService, cb *slack.InteractionCallback) error {
	if len(cb.ActionCallback.BlockActions) == 0 {
		return c.SendStatus(fiber.StatusOK)
	}
	action := cb.ActionCallback.BlockActions[0]

	var err error
	switch action.ActionID {
	case services.ActionAcceptMatch:
		err = matchService.Accept(services.AcceptEvent{
			MatchID:     action.Value,
			ResponseURL: cb.ResponseURL,
		})
	case services.ActionDeclineMatch:
		err = matchService.Decline(services.DeclineEvent{
			MatchID:     action.Value,
			ResponseURL: cb.ResponseURL,
		})
	case services.ActionOpenScoreModal:
		err = matchService.OpenScoreEntry(services.OpenScoreEntryEvent{
			MatchID:   action.Value,
			UserID:    cb.User.ID,
			TriggerID: cb.TriggerID,
		})
	}
	if err != nil {
		log.Printf("❌ [SLACK] action %s failed: %v", action.ActionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	return c.SendStatus(fiber.StatusOK)
}

func dispatchViewSubmission(c *fiber.Ctx, matchService *services.MatchService, cb *slack.InteractionCallback) error {
	if cb.View.State == nil {
		log.Printf("❌ [SLACK] view submission without state: %s", cb.View.CallbackID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	switch cb.View.CallbackID {
	case services.CallbackPickOpponent:
		// private_metadata: "{channel_id}|{challenger_user_id}"
		channelID, challengerID, ok := strings.Cut(cb.View.PrivateMetadata, "|")
		if !ok {
			log.Printf("❌ [SLACK] malformed picker metadata: %q", cb.View.PrivateMetadata)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		}
		ev := services.PickedOpponentEvent{
			ChannelID:    channelID,
			ChallengerID: challengerID,
			OpponentID:   cb.View.State.Values[services.BlockOpponent][services.ActionOpponentSelect].SelectedUser,
			ViewID:       cb.View.ID,
		}
		if err := matchService.ResolvePickedOpponent(ev); err != nil {
			log.Printf("❌ [SLACK] picked opponent failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		}
		return c.SendStatus(fiber.StatusOK)

	case services.CallbackSubmitScore:
		ev := services.SubmitScoreEvent{
			MatchID:            cb.View.PrivateMetadata,
			RawChallengerScore: cb.View.State.Values[services.BlockChallengerScore][services.InputChallengerScore].Value,
			RawOpponentScore:   cb.View.State.Values[services.BlockOpponentScore][services.InputOpponentScore].Value,
			UserID:             cb.User.ID,
		}
		outcome, err := matchService.SubmitScore(ev)
		if err != nil {
			log.Printf("❌ [SLACK] score submission failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		}
		if len(outcome.FieldErrors) > 0 {
			// Re-renders the modal in place with field-level errors.
			return c.JSON(fiber.Map{
				"response_action": "errors",
				"errors":          outcome.FieldErrors,
			})
		}
		return c.SendStatus(fiber.StatusOK)
	}
	return c.SendStatus(fiber.StatusOK)
}
