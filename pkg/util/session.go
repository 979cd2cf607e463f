package util

import (
	"github.com/google/uuid"
)

// GenerateSessionID returns an opaque token identifying a guest cart
// session. The value is only ever compared for equality, never parsed.
func GenerateSessionID() string {
	return uuid.NewString()
}
