package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// GenerateRequestHash generates a SHA256 hash for a given request payload.
func GenerateRequestHash(payload string) string {
	hash := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(hash[:])
}

// GenerateContentHash generates a SHA256 hash for a target based on its path and content.
func GenerateContentHash(target, content string) string {
	data := []byte(target + ":" + content)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GetTimestamp returns a formatted timestamp string suitable for log lines.
func GetTimestamp() string {
	return time.Now().Format("2006-01-02 15:04:05.000")
}
