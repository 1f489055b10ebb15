package services

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"
)

// Fallback carries the surfaces still reachable when a channel post fails:
// an open modal (if the failure happened inside a view flow), the user to DM
// as a last resort, and optionally the raw outcome so result data is never
// lost even when nothing else renders.
type Fallback struct {
	ViewID     string
	UserID     string
	RawOutcome string
}

// Notifier delivers a message to a channel with a strictly ordered fallback
// chain: join (best-effort) → post → remediation into the open modal → DM.
// Delivery is decoupled from persistence — a committed match transition is
// never rolled back because a message failed to render.
type Notifier struct {
	Chat ChatGateway
}

func NewNotifier(chat ChatGateway) *Notifier {
	return &Notifier{Chat: chat}
}

// DeliverToChannel runs the fallback chain. The returned error is the
// terminal failure of the whole chain, for logging by the caller only — it
// must not fail the user-visible flow.
func (n *Notifier) DeliverToChannel(channelID, text string, blocks []slack.Block, fb Fallback) error {
	// conversations.join only works for joinable channels; failure is
	// expected for private ones and not reported to the user.
	if err := n.Chat.JoinChannel(channelID); err != nil {
		log.Printf("[NOTIFY] join %s failed (continuing): %v", channelID, err)
	}

	err := n.Chat.PostMessage(channelID, text, blocks)
	if err == nil {
		return nil
	}
	log.Printf("[NOTIFY] post to %s failed: %v", channelID, err)

	msg := remediationText(err)

	if fb.ViewID != "" {
		verr := n.Chat.UpdateView(fb.ViewID, remediationModal(msg))
		if verr == nil {
			return nil
		}
		log.Printf("[NOTIFY] view update %s failed: %v", fb.ViewID, verr)
	}

	if fb.UserID != "" {
		dmText := "❌ " + msg
		if fb.RawOutcome != "" {
			dmText = fb.RawOutcome
		}
		derr := n.Chat.PostDM(fb.UserID, dmText)
		if derr == nil {
			return nil
		}
		log.Printf("[NOTIFY] dm fallback to %s failed: %v", fb.UserID, derr)
	}

	return fmt.Errorf("delivery to %s exhausted all fallbacks: %w", channelID, err)
}

func remediationText(err error) string {
	switch ClassifyDeliveryError(err) {
	case DeliveryNotInChannel:
		return "I couldn't post because I'm not in this channel.\n\n" +
			"If this is a *private* channel, run `/invite @pingpong-bot` in the channel, then try again.\n" +
			"If it's *public*, make sure the app has the `channels:join` scope and is reinstalled."
	case DeliveryMissingScope:
		return "I'm missing Slack permissions needed to post here.\n\n" +
			"Ask an admin to add the required scopes, then reinstall the app."
	default:
		return fmt.Sprintf("I couldn't post the message (error: `%v`).", err)
	}
}
