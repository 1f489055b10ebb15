package services

import (
	"errors"
	"strings"
	"testing"
)

func TestDeliverToChannelHappyPath(t *testing.T) {
	chat := &fakeChat{}
	n := NewNotifier(chat)

	if err := n.DeliverToChannel("C", "hello", nil, Fallback{UserID: "U1"}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(chat.joins) != 1 || chat.joins[0] != "C" {
		t.Fatalf("expected join attempt, got %+v", chat.joins)
	}
	if len(chat.posts) != 1 || chat.posts[0].text != "hello" {
		t.Fatalf("expected post, got %+v", chat.posts)
	}
	if len(chat.dms) != 0 || len(chat.updated) != 0 {
		t.Fatal("no fallback may fire on success")
	}
}

func TestDeliverToChannelJoinFailureIsNotFatal(t *testing.T) {
	chat := &fakeChat{joinErr: errors.New("method_not_supported_for_channel_type")}
	n := NewNotifier(chat)

	if err := n.DeliverToChannel("C", "hello", nil, Fallback{}); err != nil {
		t.Fatalf("join failure must not block delivery: %v", err)
	}
	if len(chat.posts) != 1 {
		t.Fatalf("expected post despite join failure, got %+v", chat.posts)
	}
}

func TestDeliverToChannelRemediatesIntoOpenView(t *testing.T) {
	chat := &fakeChat{postErr: errors.New("not_in_channel")}
	n := NewNotifier(chat)

	if err := n.DeliverToChannel("C", "hello", nil, Fallback{ViewID: "V1", UserID: "U1"}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(chat.updated) != 1 || chat.updated[0].id != "V1" {
		t.Fatalf("expected view remediation, got %+v", chat.updated)
	}
	if len(chat.dms) != 0 {
		t.Fatal("dm must not fire when the view update succeeded")
	}
}

func TestDeliverToChannelFallsThroughToDM(t *testing.T) {
	chat := &fakeChat{
		postErr:   errors.New("not_in_channel"),
		updateErr: errors.New("not_found"),
	}
	n := NewNotifier(chat)

	if err := n.DeliverToChannel("C", "hello", nil, Fallback{ViewID: "V1", UserID: "U1"}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(chat.dms) != 1 || chat.dms[0].user != "U1" {
		t.Fatalf("expected dm fallback, got %+v", chat.dms)
	}
	if !strings.Contains(chat.dms[0].text, "/invite @pingpong-bot") {
		t.Fatalf("expected not-in-channel remediation, got %q", chat.dms[0].text)
	}
}

func TestDeliverToChannelRawOutcomeWinsInDM(t *testing.T) {
	chat := &fakeChat{postErr: errors.New("not_in_channel")}
	n := NewNotifier(chat)

	if err := n.DeliverToChannel("C", "hello", nil, Fallback{
		UserID:     "U1",
		RawOutcome: "scores were recorded as 21-15",
	}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(chat.dms) != 1 || chat.dms[0].text != "scores were recorded as 21-15" {
		t.Fatalf("expected raw outcome in dm, got %+v", chat.dms)
	}
}

func TestDeliverToChannelExhaustedChainReturnsError(t *testing.T) {
	chat := &fakeChat{
		postErr: errors.New("some_error"),
		dmErr:   errors.New("cannot_dm_bot"),
	}
	n := NewNotifier(chat)

	if err := n.DeliverToChannel("C", "hello", nil, Fallback{UserID: "U1"}); err == nil {
		t.Fatal("expected terminal error when every fallback fails")
	}
}

func TestClassifyDeliveryError(t *testing.T) {
	tests := []struct {
		err  error
		want DeliveryErrorKind
	}{
		{errors.New("not_in_channel"), DeliveryNotInChannel},
		{errors.New("channel_not_found"), DeliveryNotInChannel},
		{errors.New("missing_scope"), DeliveryMissingScope},
		{errors.New("rate_limited"), DeliveryOther},
		{nil, DeliveryOther},
	}
	for _, tt := range tests {
		if got := ClassifyDeliveryError(tt.err); got != tt.want {
			t.Fatalf("ClassifyDeliveryError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestRemediationTextMissingScope(t *testing.T) {
	msg := remediationText(errors.New("missing_scope"))
	if !strings.Contains(msg, "missing Slack permissions") {
		t.Fatalf("unexpected remediation text: %q", msg)
	}
}
