package main

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stellar/go/strkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)

	account, err := strkey.Encode(strkey.VersionByteAccountID, key)
	require.NoError(t, err)
	raw, kind, err := decode(account)
	require.NoError(t, err)
	assert.Equal(t, "stellar-account", kind)
	assert.Equal(t, hex.EncodeToString(key), hex.EncodeToString(raw))

	raw, kind, err = decode(base58.Encode(key))
	require.NoError(t, err)
	assert.Equal(t, "solana", kind)
	assert.Equal(t, key, raw)

	_, _, err = decode("0OIl")
	assert.Error(t, err)

	_, _, err = decode(base58.Encode(key[:8]))
	assert.Error(t, err)
}
