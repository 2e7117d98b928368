package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// SecureCodeGenerator implements domain.CodeGenerator on crypto/rand.
// Codes cover the full zero-padded range, so leading zeros are legal and
// every code is exactly `length` digits wide.
type SecureCodeGenerator struct {
	length int
}

// NewCodeGenerator creates a generator for fixed-width numeric codes.
func NewCodeGenerator(length int) domain.CodeGenerator {
	return &SecureCodeGenerator{length: length}
}

// Generate implements domain.CodeGenerator.
func (g *SecureCodeGenerator) Generate() (string, error) {
	digits := make([]byte, g.length)

	for i := 0; i < g.length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
