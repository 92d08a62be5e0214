package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// CodeMin and CodeMax bound the generated code: always four digits,
	// never leading-zero.
	CodeMin = 1000
	CodeMax = 9999

	// TTL is how long an issued code stays valid.
	TTL = 60 * time.Second
)

// GenerateCode returns a uniformly random four-digit code in [1000, 9999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(CodeMax-CodeMin+1))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%d", CodeMin+n.Int64()), nil
}
