package appointment

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	inviteCodeLength   = 8
)

// GenerateInviteCode produces a random 8-character invite code.
func GenerateInviteCode() (string, error) {
	code := make([]byte, inviteCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(inviteCodeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}
		code[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// uniqueInviteCode generates codes until one is unused.
func (s *DefaultAppointmentService) uniqueInviteCode(ctx context.Context) (string, error) {
	for {
		code, err := GenerateInviteCode()
		if err != nil {
			return "", err
		}
		exists, err := s.Repo.InviteCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}
