package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"pingpong-bot/models"

	"github.com/google/uuid"
)

// MatchService owns the challenge lifecycle: pending → accepted (advisory)
// → scored/declined. It is constructed once at startup and injected into
// the webhook handlers; the store is the only shared mutable state and every
// transition re-reads from it, so concurrent interactions need no
// application-level locking.
//
// Methods return an error only for storage failures — those surface to the
// webhook layer as a processing failure. Everything else (stale match ids,
// delivery failures, bad input) ends in an acknowledgment to the user and a
// nil error.
type MatchService struct {
	Store    MatchStore
	Chat     ChatGateway
	Notifier *Notifier

	now        func() time.Time
	newMatchID func(challengerID string) string
}

func NewMatchService(store MatchStore, chat ChatGateway) *MatchService {
	s := &MatchService{
		Store:    store,
		Chat:     chat,
		Notifier: NewNotifier(chat),
		now:      time.Now,
	}
	s.newMatchID = func(challengerID string) string {
		// Challenger + timestamp + random suffix: unique across restarts
		// and across rapid repeat challenges by the same user.
		return fmt.Sprintf("match_%s_%d_%s", challengerID, s.now().Unix(), uuid.NewString()[:8])
	}
	return s
}

// IssueChallenge handles the `/pingpong` slash command. Unresolvable
// opponent text falls back to the interactive picker; everything else
// converges on createMatch.
func (s *MatchService) IssueChallenge(ev IssueChallengeEvent) error {
	text := strings.TrimSpace(ev.Text)
	if !strings.HasPrefix(text, "challenge") {
		if err := s.Chat.Respond(ev.ResponseURL, "Try `/pingpong challenge @someone`", nil, false); err != nil {
			log.Printf("[MATCH] usage reply failed: %v", err)
		}
		return nil
	}

	opponentID, ok := ExtractOpponentID(text)
	if !ok {
		// No mention token made it through; let the human pick from a
		// users_select instead of guessing at display names.
		if err := s.Chat.OpenView(ev.TriggerID, pickOpponentModal(ev.ChannelID, ev.UserID)); err != nil {
			log.Printf("[MATCH] picker open failed: %v", err)
			if rerr := s.Chat.Respond(ev.ResponseURL, "❌ I couldn't open the opponent picker. Please try again.", nil, false); rerr != nil {
				log.Printf("[MATCH] picker failure reply failed: %v", rerr)
			}
		}
		return nil
	}

	match, err := s.createMatch(ev.UserID, opponentID, ev.ChannelID)
	if err != nil {
		return err
	}

	text, blocks := challengeBlocks(match.Challenger, match.Opponent, match.ID)
	if err := s.Chat.Respond(ev.ResponseURL, text, blocks, true); err != nil {
		log.Printf("[MATCH] challenge respond failed: %v", err)
		// The match is already persisted; fall back to posting directly.
		if derr := s.Notifier.DeliverToChannel(match.Channel, text, blocks, Fallback{UserID: match.Challenger}); derr != nil {
			log.Printf("[MATCH] challenge delivery exhausted: %v", derr)
		}
	}
	return nil
}

// ResolvePickedOpponent resumes a challenge after the picker modal was
// submitted. It performs the same match creation as the synchronous path.
func (s *MatchService) ResolvePickedOpponent(ev PickedOpponentEvent) error {
	match, err := s.createMatch(ev.ChallengerID, ev.OpponentID, ev.ChannelID)
	if err != nil {
		return err
	}

	text, blocks := challengeBlocks(match.Challenger, match.Opponent, match.ID)
	if derr := s.Notifier.DeliverToChannel(match.Channel, text, blocks, Fallback{
		ViewID: ev.ViewID,
		UserID: match.Challenger,
	}); derr != nil {
		log.Printf("[MATCH] picked-opponent delivery exhausted: %v", derr)
	}
	return nil
}

func (s *MatchService) createMatch(challengerID, opponentID, channelID string) (*models.Match, error) {
	match := &models.Match{
		ID:         s.newMatchID(challengerID),
		Challenger: challengerID,
		Opponent:   opponentID,
		Channel:    channelID,
		CreatedAt:  s.now().Unix(),
	}
	if err := s.Store.CreateOrReplace(match); err != nil {
		return nil, err
	}
	return match, nil
}

// Accept reads the match and invites score submission. Acceptance is not
// persisted: the score flow re-validates against the same row, and a match
// gone by the time the button is clicked is a normal race, not an error.
func (s *MatchService) Accept(ev AcceptEvent) error {
	match, err := s.Store.Get(ev.MatchID)
	if err != nil {
		return err
	}
	if match == nil {
		if rerr := s.Chat.Respond(ev.ResponseURL, "❌ Match not found or expired.", nil, false); rerr != nil {
			log.Printf("[MATCH] not-found reply failed: %v", rerr)
		}
		return nil
	}

	text, blocks := acceptedBlocks(match)
	if rerr := s.Chat.Respond(ev.ResponseURL, text, blocks, false); rerr != nil {
		log.Printf("[MATCH] accept reply failed: %v", rerr)
	}
	return nil
}

// Decline deletes the match unconditionally. Deleting an already-gone match
// is a no-op, so a redelivered decline never errors.
func (s *MatchService) Decline(ev DeclineEvent) error {
	if err := s.Store.Delete(ev.MatchID); err != nil {
		return err
	}
	if rerr := s.Chat.Respond(ev.ResponseURL, "❌ Match declined.", nil, false); rerr != nil {
		log.Printf("[MATCH] decline reply failed: %v", rerr)
	}
	return nil
}

// OpenScoreEntry opens the score modal with participant labels, or tells the
// user the match is gone.
func (s *MatchService) OpenScoreEntry(ev OpenScoreEntryEvent) error {
	match, err := s.Store.Get(ev.MatchID)
	if err != nil {
		return err
	}
	if match == nil {
		if derr := s.Chat.PostDM(ev.UserID, "❌ Sorry, I couldn't find that match. It may have expired."); derr != nil {
			log.Printf("[MATCH] score-entry not-found dm failed: %v", derr)
		}
		return nil
	}

	if verr := s.Chat.OpenView(ev.TriggerID, scoreModal(match, ev.UserID)); verr != nil {
		log.Printf("[MATCH] score modal open failed: %v", verr)
		if derr := s.Chat.PostDM(ev.UserID, "❌ I couldn't open the score form. Please try again."); derr != nil {
			log.Printf("[MATCH] score modal failure dm failed: %v", derr)
		}
	}
	return nil
}

// SubmitScore validates the submitted scores and completes the match.
// Ordering matters: the result is appended before the match row is deleted,
// so a crash in between can never lose a completed result. A failed delete
// is logged and the match is still treated as scored — the result log is the
// source of truth.
func (s *MatchService) SubmitScore(ev SubmitScoreEvent) (*SubmitScoreOutcome, error) {
	challengerScore, err1 := strconv.Atoi(strings.TrimSpace(ev.RawChallengerScore))
	opponentScore, err2 := strconv.Atoi(strings.TrimSpace(ev.RawOpponentScore))
	if err1 != nil || err2 != nil {
		return &SubmitScoreOutcome{FieldErrors: map[string]string{
			BlockChallengerScore: "Scores must be whole numbers.",
		}}, nil
	}

	match, err := s.Store.Get(ev.MatchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		// Already scored or declined by a racing interaction, or the row was
		// swept. Acknowledge the submitter so the click is never silent.
		if derr := s.Chat.PostDM(ev.UserID, "🏓 Score recorded (match context lost)."); derr != nil {
			log.Printf("[MATCH] context-lost dm failed: %v", derr)
		}
		return &SubmitScoreOutcome{}, nil
	}

	winner := ComputeWinner(match.Challenger, match.Opponent, challengerScore, opponentScore)
	result := &models.Result{
		MatchID:         match.ID,
		Challenger:      match.Challenger,
		Opponent:        match.Opponent,
		ChallengerScore: challengerScore,
		OpponentScore:   opponentScore,
		Winner:          winner,
		Channel:         match.Channel,
		SubmittedBy:     ev.UserID,
		SubmittedAt:     s.now().Unix(),
	}
	if err := s.Store.AppendResult(result); err != nil {
		return nil, err
	}
	if err := s.Store.Delete(match.ID); err != nil {
		log.Printf("[MATCH] delete after scoring failed for %s (result already recorded): %v", match.ID, err)
	}

	text := resultText(match, challengerScore, opponentScore, winner)
	if derr := s.Notifier.DeliverToChannel(match.Channel, text, nil, Fallback{
		UserID: ev.UserID,
		RawOutcome: fmt.Sprintf(
			"🏓 I couldn't post the match result to the channel, but your scores were recorded as %d-%d for match `%s`.",
			challengerScore, opponentScore, match.ID,
		),
	}); derr != nil {
		log.Printf("[MATCH] result delivery exhausted: %v", derr)
	}

	return &SubmitScoreOutcome{}, nil
}
