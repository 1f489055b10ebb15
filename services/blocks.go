package services

import (
	"fmt"

	"pingpong-bot/models"

	"github.com/slack-go/slack"
)

// Interaction ids round-tripped through Slack payloads. Button values carry
// the match id; block/action ids key the submitted modal values.
const (
	ActionAcceptMatch    = "accept_match"
	ActionDeclineMatch   = "decline_match"
	ActionOpenScoreModal = "open_score_modal"
	ActionOpponentSelect = "opponent_select"

	CallbackPickOpponent = "pingpong_pick_opponent"
	CallbackSubmitScore  = "submit_score"

	BlockOpponent        = "opponent_block"
	BlockChallengerScore = "score_block_challenger"
	BlockOpponentScore   = "score_block_opponent"
	InputChallengerScore = "score_input_challenger"
	InputOpponentScore   = "score_input_opponent"
)

func mrkdwn(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}

// challengeBlocks renders the in-channel challenge announcement with
// accept/decline buttons carrying the match id.
func challengeBlocks(challengerID, opponentID, matchID string) (string, []slack.Block) {
	text := fmt.Sprintf("🏓 <@%s> challenged <@%s>!", challengerID, opponentID)

	accept := slack.NewButtonBlockElement(ActionAcceptMatch, matchID, plain("Accept")).
		WithStyle(slack.StylePrimary)
	decline := slack.NewButtonBlockElement(ActionDeclineMatch, matchID, plain("Decline")).
		WithStyle(slack.StyleDanger)

	blocks := []slack.Block{
		slack.NewSectionBlock(mrkdwn(fmt.Sprintf(
			"<@%s> has challenged <@%s> to a ping pong match!", challengerID, opponentID,
		)), nil, nil),
		slack.NewActionBlock("", accept, decline),
	}
	return text, blocks
}

func acceptedBlocks(m *models.Match) (string, []slack.Block) {
	submit := slack.NewButtonBlockElement(ActionOpenScoreModal, m.ID, plain("Submit Score"))
	blocks := []slack.Block{
		slack.NewSectionBlock(mrkdwn(fmt.Sprintf(
			"Match accepted! <@%s> vs <@%s>. Go play 🏓", m.Challenger, m.Opponent,
		)), nil, nil),
		slack.NewActionBlock("", submit),
	}
	return "✅ Match accepted!", blocks
}

// pickOpponentModal is the fallback when no mention token could be parsed
// out of the challenge text. The originating channel and challenger ride in
// private_metadata so the submission event can resume match creation.
func pickOpponentModal(channelID, challengerID string) slack.ModalViewRequest {
	selectEl := slack.NewOptionsSelectBlockElement(
		slack.OptTypeUser, plain("Pick someone to challenge"), ActionOpponentSelect,
	)
	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      CallbackPickOpponent,
		PrivateMetadata: channelID + "|" + challengerID,
		Title:           plain("Pingpong Challenge"),
		Submit:          plain("Challenge"),
		Close:           plain("Cancel"),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewInputBlock(BlockOpponent, plain("Opponent"), nil, selectEl),
		}},
	}
}

// scoreModal collects both scores. Labels are personalized when the opener
// is one of the two participants; anyone else gets neutral labels.
func scoreModal(m *models.Match, openerID string) slack.ModalViewRequest {
	yourLabel := "Your score"
	opponentLabel := "Opponent's score"
	switch openerID {
	case m.Challenger:
		opponentLabel = fmt.Sprintf("Score for <@%s>", m.Opponent)
	case m.Opponent:
		opponentLabel = fmt.Sprintf("Score for <@%s>", m.Challenger)
	}

	challengerInput := slack.NewPlainTextInputBlockElement(plain("e.g. 21"), InputChallengerScore)
	opponentInput := slack.NewPlainTextInputBlockElement(plain("e.g. 15"), InputOpponentScore)

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      CallbackSubmitScore,
		PrivateMetadata: m.ID,
		Title:           plain("Submit Score"),
		Submit:          plain("Submit"),
		Close:           plain("Cancel"),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewSectionBlock(mrkdwn(fmt.Sprintf(
				"Enter the final scores for <@%s> vs <@%s>.", m.Challenger, m.Opponent,
			)), nil, nil),
			slack.NewInputBlock(BlockChallengerScore, plain(yourLabel), nil, challengerInput),
			slack.NewInputBlock(BlockOpponentScore, plain(opponentLabel), nil, opponentInput),
		}},
	}
}

func resultText(m *models.Match, challengerScore, opponentScore int, winner *string) string {
	winnerLine := "\n*Result:* Tie game"
	if winner != nil {
		winnerLine = fmt.Sprintf("\n*Winner:* <@%s>", *winner)
	}
	return fmt.Sprintf(
		"🏓 Match Result: <@%s> vs <@%s>\n*Scores:* <@%s> %d – <@%s> %d%s",
		m.Challenger, m.Opponent, m.Challenger, challengerScore, m.Opponent, opponentScore, winnerLine,
	)
}

// remediationModal re-renders an open modal with a human-actionable message
// after a delivery failure.
func remediationModal(msg string) slack.ModalViewRequest {
	return slack.ModalViewRequest{
		Type:  slack.VTModal,
		Title: plain("Pingpong Challenge"),
		Close: plain("Close"),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewSectionBlock(mrkdwn("❌ "+msg), nil, nil),
		}},
	}
}
