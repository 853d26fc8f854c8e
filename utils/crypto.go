package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"moim/config"

	"golang.org/x/crypto/chacha20poly1305"
)

// sealKey derives a 32-byte AEAD key from the configured seal secret.
func sealKey() []byte {
	sum := sha256.Sum256([]byte(config.AppConfig.TokenSealKey))
	return sum[:]
}

// SealSecret encrypts a secret (e.g. a Google refresh token) for storage.
// The nonce is prepended to the ciphertext and the whole blob is base64
// encoded so it can live in a plain string field.
func SealSecret(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(sealKey())
	if err != nil {
		return "", fmt.Errorf("failed to create AEAD: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenSecret reverses SealSecret.
func OpenSecret(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to decode sealed secret: %w", err)
	}

	aead, err := chacha20poly1305.NewX(sealKey())
	if err != nil {
		return "", fmt.Errorf("failed to create AEAD: %w", err)
	}

	if len(raw) < aead.NonceSize() {
		return "", errors.New("sealed secret too short")
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to open sealed secret: %w", err)
	}
	return string(plaintext), nil
}
