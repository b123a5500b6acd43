package tool

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

func GenerateRandomUUID() string {
	return uuid.New().String()
}

// GenerateShortID returns an 8 hex char id, short enough for log lines.
func GenerateShortID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return GenerateRandomUUID()[:8] // fallback
	}
	return hex.EncodeToString(b)
}
