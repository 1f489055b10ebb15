package services

import "regexp"

// Slack's canonical mention token is <@U123ABC> or <@U123ABC|display-name>;
// the display-name suffix is ignored. Some client contexts fail to escape
// mentions and send raw @U123ABC / @W123ABC text instead, so that is kept as
// a best-effort fallback.
var (
	mentionTokenRe = regexp.MustCompile(`<@([A-Z0-9]+)(?:\|[^>]+)?>`)
	rawMentionRe   = regexp.MustCompile(`@([UW][A-Z0-9]+)`)
)

// ExtractOpponentID pulls the first well-formed user reference out of
// free-form challenge text. ok is false when neither pattern matches, in
// which case the caller must fall back to the interactive picker.
// Self-mentions are not rejected here — challenging yourself is allowed.
func ExtractOpponentID(text string) (id string, ok bool) {
	if m := mentionTokenRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := rawMentionRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}
