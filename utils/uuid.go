package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new random identifier, used for lock tokens, event ids
// and request ids
func GenerateID() string {
	return uuid.NewString()
}
