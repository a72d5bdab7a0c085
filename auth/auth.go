// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidToken    = errors.New("invalid token format")
)

// NewID returns a random (v4) UUID without dashes
func NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate ID: %w", err)
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}

// GenerateAdminKey derives the admin key for an election.
// Deterministic, so it never needs storing.
func GenerateAdminKey(electionID, salt string) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(mac(electionID, salt)), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the election
func ValidateAdminKey(electionID, adminKey, salt string) error {
	if adminKey == "" {
		return ErrInvalidAdminKey
	}
	expected := GenerateAdminKey(electionID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateVoterToken creates a random token identifying a registered voter
func GenerateVoterToken() (string, error) {
	b := make([]byte, 24) // 192 bits
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate voter token: %w", err)
	}
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// ValidateVoterToken rejects tokens that cannot have come from GenerateVoterToken
func ValidateVoterToken(token string) error {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(b) != 24 {
		return ErrInvalidToken
	}
	return nil
}

// GenerateShareSlug creates a short base62 slug for an election's public URL
func GenerateShareSlug(electionID, salt string) string {
	return base62Encode(mac(electionID, salt)[:8])
}

// HashIP creates a salted one-way hash of a client address for ballot audit
func HashIP(ip, salt string) string {
	return hex.EncodeToString(mac(ip, salt)[:8])
}

func mac(msg, salt string) []byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(msg))
	return h.Sum(nil)
}

// base62Encode converts up to 8 bytes to 0-9a-zA-Z
func base62Encode(data []byte) string {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}
	if num == 0 {
		return "0"
	}

	var out []byte
	for num > 0 {
		out = append([]byte{base62Chars[num%62]}, out...)
		num /= 62
	}
	return string(out)
}
