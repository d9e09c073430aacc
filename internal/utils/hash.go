package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashString computes an HMAC-SHA256 signature over the given string
// using the provided hash key and returns the result as a hex-encoded string.
//
// Parameters:
//
//	data    - string to be hashed
//	hashKey - secret key used for the HMAC operation
//
// Returns:
//
//	string - hex-encoded HMAC-SHA256 digest
//
// Example usage:
//
//	signature := utils.HashString("some data", "my-secret-key")
func HashString(data string, hashKey string) string {
	return hex.EncodeToString(hashParts(hashKey, data))
}

// HashParts computes an HMAC-SHA256 signature over the concatenation of
// parts, keyed by hashKey, and returns it hex-encoded.
//
// Example usage:
//
//	signature := utils.HashParts(token, "GET", "/api/mail", timestamp)
func HashParts(hashKey string, parts ...string) string {
	return hex.EncodeToString(hashParts(hashKey, parts...))
}

// EqualHashes compares two hex-encoded signatures in constant time.
func EqualHashes(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}

// hashParts computes the raw HMAC-SHA256 digest. A new HMAC instance is
// created on each call.
func hashParts(hashKey string, parts ...string) []byte {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	for _, p := range parts {
		hasher.Write([]byte(p))
	}
	return hasher.Sum(nil)
}
