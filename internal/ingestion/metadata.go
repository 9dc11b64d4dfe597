package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash returns the SHA256 hex digest of text
func ContentHash(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
