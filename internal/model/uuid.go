package model

import "github.com/google/uuid"

// GenerateID creates a new random identifier for profiles and tabs.
func GenerateID() string {
	return uuid.New().String()
}
