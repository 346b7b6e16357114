package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/mr-tron/base58"
	"github.com/stellar/go/strkey"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: addrhex <address>")
		os.Exit(1)
	}

	raw, kind, err := decode(os.Args[1])
	if err != nil {
		fmt.Printf("Error decoding address: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s %s\n", kind, hex.EncodeToString(raw))
}

// decode accepts a Stellar strkey (G... or C...) or a Solana base58 public key
func decode(address string) ([]byte, string, error) {
	if version, err := strkey.Version(address); err == nil {
		raw, err := strkey.Decode(version, address)
		if err != nil {
			return nil, "", err
		}
		switch version {
		case strkey.VersionByteAccountID:
			return raw, "stellar-account", nil
		case strkey.VersionByteContract:
			return raw, "stellar-contract", nil
		default:
			return raw, "stellar", nil
		}
	}

	raw, err := base58.Decode(address)
	if err != nil {
		return nil, "", fmt.Errorf("not a strkey or base58 value: %w", err)
	}
	if len(raw) != 32 {
		return nil, "", fmt.Errorf("expected 32 bytes, got %d", len(raw))
	}
	return raw, "solana", nil
}
