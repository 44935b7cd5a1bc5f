package model

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// No 0/O or 1/I so codes survive being read aloud.
const (
	codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeLength   = 6
	codePrefix   = "BK"
	orderSpread  = 1000
)

// NewBookingCode returns a human readable reference such as BK-20261018-7Q2M9X.
func NewBookingCode(now time.Time) (string, error) {
	suffix := make([]byte, codeLength)
	limit := big.NewInt(int64(len(codeAlphabet)))

	for i := range suffix {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate booking code: %w", err)
		}

		suffix[i] = codeAlphabet[n.Int64()]
	}

	return fmt.Sprintf("%s-%s-%s", codePrefix, now.UTC().Format("20060102"), suffix), nil
}

// NewOrderCode returns the numeric reference some gateways require. It stays below 2^53.
func NewOrderCode(now time.Time) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(orderSpread))
	if err != nil {
		return 0, fmt.Errorf("failed to generate order code: %w", err)
	}

	return now.UnixMilli()*orderSpread + n.Int64(), nil
}
