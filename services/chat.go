package services

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

// ChatGateway is the outbound chat surface the coordinator talks to. All
// methods are best-effort deliveries; errors are classified by
// ClassifyDeliveryError and never roll back persisted state.
type ChatGateway interface {
	// JoinChannel asks the bot to join a channel before posting. Only works
	// for joinable public channels; callers treat failure as non-fatal.
	JoinChannel(channelID string) error
	PostMessage(channelID, text string, blocks []slack.Block) error
	// PostDM opens (or reuses) a direct conversation with the user and posts
	// into it.
	PostDM(userID, text string) error
	OpenView(triggerID string, view slack.ModalViewRequest) error
	UpdateView(viewID string, view slack.ModalViewRequest) error
	// Respond posts through an interaction's response_url. Ephemeral by
	// default; inChannel makes the reply visible to the whole channel.
	Respond(responseURL, text string, blocks []slack.Block, inChannel bool) error
}

// DeliveryErrorKind buckets Slack delivery failures into the cases the
// fallback chain branches on.
type DeliveryErrorKind int

const (
	DeliveryOther DeliveryErrorKind = iota
	DeliveryNotInChannel
	DeliveryMissingScope
)

// ClassifyDeliveryError maps a Slack API error to a DeliveryErrorKind.
// Slack error codes travel as short strings inside the error message
// ("not_in_channel", "missing_scope", ...).
func ClassifyDeliveryError(err error) DeliveryErrorKind {
	if err == nil {
		return DeliveryOther
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not_in_channel"), strings.Contains(msg, "channel_not_found"):
		return DeliveryNotInChannel
	case strings.Contains(msg, "missing_scope"), strings.Contains(msg, "not_allowed_token_type"):
		return DeliveryMissingScope
	default:
		return DeliveryOther
	}
}

// SlackGateway implements ChatGateway on top of the Slack Web API.
type SlackGateway struct {
	API *slack.Client
}

func NewSlackGateway(api *slack.Client) *SlackGateway {
	return &SlackGateway{API: api}
}

func (g *SlackGateway) JoinChannel(channelID string) error {
	_, _, _, err := g.API.JoinConversation(channelID)
	return err
}

func (g *SlackGateway) PostMessage(channelID, text string, blocks []slack.Block) error {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if len(blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(blocks...))
	}
	_, _, err := g.API.PostMessage(channelID, opts...)
	return err
}

func (g *SlackGateway) PostDM(userID, text string) error {
	ch, _, _, err := g.API.OpenConversation(&slack.OpenConversationParameters{
		Users: []string{userID},
	})
	if err != nil {
		return fmt.Errorf("open dm with %s: %w", userID, err)
	}
	_, _, err = g.API.PostMessage(ch.ID, slack.MsgOptionText(text, false))
	return err
}

func (g *SlackGateway) OpenView(triggerID string, view slack.ModalViewRequest) error {
	_, err := g.API.OpenView(triggerID, view)
	return err
}

func (g *SlackGateway) UpdateView(viewID string, view slack.ModalViewRequest) error {
	_, err := g.API.UpdateView(view, "", "", viewID)
	return err
}

func (g *SlackGateway) Respond(responseURL, text string, blocks []slack.Block, inChannel bool) error {
	msg := &slack.WebhookMessage{Text: text}
	if len(blocks) > 0 {
		msg.Blocks = &slack.Blocks{BlockSet: blocks}
	}
	if inChannel {
		msg.ResponseType = slack.ResponseTypeInChannel
	}
	return slack.PostWebhook(responseURL, msg)
}
