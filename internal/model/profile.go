package model

import "time"

// DefaultProfileID is the id of the built-in profile. It always exists and is
// never persisted.
const DefaultProfileID = "default"

// Profile is a named browsing identity with its own isolated storage.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Emoji     string    `json:"emoji"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewProfileParams holds parameters for creating a new Profile.
type NewProfileParams struct {
	Name  string
	Color string
	Emoji string
}

// NewProfile creates a Profile with a generated id and creation timestamp.
func NewProfile(params NewProfileParams) Profile {
	return Profile{
		ID:        GenerateID(),
		Name:      params.Name,
		Color:     params.Color,
		Emoji:     params.Emoji,
		IsDefault: false,
		CreatedAt: time.Now(),
	}
}

// DefaultProfile returns the synthesized built-in profile.
func DefaultProfile() Profile {
	return Profile{
		ID:        DefaultProfileID,
		Name:      "Default",
		Color:     "#5B5B66",
		Emoji:     "👤",
		IsDefault: true,
	}
}

// ContextTag returns the tag stamped on tabs created while this profile is
// active and private mode is off.
func (p Profile) ContextTag() string {
	return ProfileContextTag(p.ID)
}
