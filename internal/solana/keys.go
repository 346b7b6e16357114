package solana

import (
	"fmt"

	"github.com/mr-tron/base58"
)

const (
	publicKeyLength = 32
	signatureLength = 64
)

func decodeFixed(s string, size int) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("empty value")
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode base58: %w", err)
	}
	if len(raw) != size {
		return nil, fmt.Errorf("expected %d bytes, got %d", size, len(raw))
	}
	return raw, nil
}
