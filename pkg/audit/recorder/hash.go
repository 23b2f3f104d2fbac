package recorder

import (
	"crypto/sha256"
	"encoding/hex"
)

const (
	// MaxHashSize is the maximum number of bytes hashed from large
	// inputs. Hashing only the first 1MB prevents memory exhaustion
	// while keeping collision resistance adequate for audit integrity.
	MaxHashSize = 1024 * 1024 // 1MB
)

// HashInput computes the SHA-256 digest of the input text and returns
// it hex-encoded. For inputs exceeding MaxHashSize, only the first
// MaxHashSize bytes are hashed.
//
// Returns an empty string for empty input.
func HashInput(inputText string) string {
	if len(inputText) == 0 {
		return ""
	}

	content := []byte(inputText)
	if len(content) > MaxHashSize {
		content = content[:MaxHashSize]
	}

	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
