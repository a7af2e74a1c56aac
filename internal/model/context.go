package model

import "strings"

const (
	// PrivateContextTag is carried by every tab created in private mode.
	PrivateContextTag = "private"

	// ProfileContextPrefix prefixes the profile id in a profile context tag.
	ProfileContextPrefix = "profile_"
)

// Selection is the persisted pair of active profile and private flag.
// The two are independent: entering private mode does not touch the
// active profile.
type Selection struct {
	ActiveProfileID string
	PrivateMode     bool
}

// ContextTag derives the tag for newly created tabs.
func (s Selection) ContextTag() string {
	return ContextTagFor(s.ActiveProfileID, s.PrivateMode)
}

// ContextTagFor derives a context tag from an active profile id and the
// private flag.
func ContextTagFor(activeProfileID string, private bool) string {
	if private {
		return PrivateContextTag
	}
	return ProfileContextTag(activeProfileID)
}

// ProfileContextTag returns "profile_<id>".
func ProfileContextTag(profileID string) string {
	return ProfileContextPrefix + profileID
}

// ProfileIDFromTag extracts the profile id from a profile context tag.
// Returns false for the private tag or anything unrecognized.
func ProfileIDFromTag(tag string) (string, bool) {
	id, ok := strings.CutPrefix(tag, ProfileContextPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
