package service

import (
	"encoding/json"
	"strings"

	"ripple/internal/models"
)

// MentionInput is one client-supplied mention candidate. It accepts either a
// bare handle string ("alice") or an object ({"username": "alice",
// "user_id": 7}) so older clients keep working.
type MentionInput struct {
	UserID   *uint  `json:"user_id,omitempty"`
	Username string `json:"username"`
}

// UnmarshalJSON lets a MentionInput be either a JSON string or an object.
func (m *MentionInput) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var handle string
		if err := json.Unmarshal(data, &handle); err != nil {
			return err
		}
		m.Username = handle
		m.UserID = nil
		return nil
	}
	type alias MentionInput
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*m = MentionInput(obj)
	return nil
}

// mentionSeed converts stored mention rows back into extraction candidates,
// carrying resolved user ids through an edit that omits the mentions field.
func mentionSeed(existing []models.CommentMention) []MentionInput {
	if len(existing) == 0 {
		return nil
	}
	seed := make([]MentionInput, 0, len(existing))
	for _, m := range existing {
		seed = append(seed, MentionInput{UserID: m.UserID, Username: m.Username})
	}
	return seed
}

// validHandle reports whether the case-folded token matches the handle
// grammar: 1 to 30 characters from [a-z0-9_.].
func validHandle(handle string) bool {
	if len(handle) < 1 || len(handle) > 30 {
		return false
	}
	for i := 0; i < len(handle); i++ {
		c := handle[i]
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' || c == '.' {
			continue
		}
		return false
	}
	return true
}

func isHandleChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == '.'
}

// ExtractMentions merges client-supplied mention candidates with @handle
// tokens scanned out of the content. The client list goes first (keeping any
// attached user id), then scanned handles that are not already present, with
// no attached user id. Handles are case-folded to lowercase and deduplicated
// by the folded form; invalid ones are dropped silently. The result is capped
// at 20 entries.
//
// This is a pure function: it never consults the user directory, so a mention
// of a username that does not exist is kept as-is.
func ExtractMentions(content string, seed []MentionInput) []models.CommentMention {
	mentions := make([]models.CommentMention, 0, len(seed))
	seen := make(map[string]struct{}, len(seed))

	add := func(username string, userID *uint) {
		if len(mentions) >= models.MaxMentionsPerComment {
			return
		}
		handle := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
		if !validHandle(handle) {
			return
		}
		if _, ok := seen[handle]; ok {
			return
		}
		seen[handle] = struct{}{}
		mentions = append(mentions, models.CommentMention{
			Username: handle,
			UserID:   userID,
			Position: len(mentions),
		})
	}

	for _, m := range seed {
		add(m.Username, m.UserID)
	}

	for i := 0; i < len(content); i++ {
		if content[i] != '@' {
			continue
		}
		j := i + 1
		for j < len(content) && isHandleChar(content[j]) {
			j++
		}
		if j > i+1 {
			add(content[i+1:j], nil)
		}
		i = j - 1
	}

	return mentions
}
