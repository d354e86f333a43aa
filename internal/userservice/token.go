package userservice

import (
	"crypto/sha256"
	"encoding/hex"
)

func hashToken(token string) []byte {
	hash := sha256.Sum256([]byte(token))
	return hash[:]
}

// Key identifies the session in process wide registries without exposing the token.
func (s *Session) Key() string {
	return hex.EncodeToString(s.Hash)
}
