package models

import "github.com/google/uuid"

// newID returns id when already set, otherwise a fresh uuid.
func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
