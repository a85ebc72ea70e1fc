package common

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestKeccak256Hasher(t *testing.T) {
	h := NewKeccak256Hasher()
	require.NotEqual(t, nil, h)
	require.Equal(t, HashLength, h.Size())

	emptyHash := h.Compute("")
	require.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", hex.EncodeToString(emptyHash))

	hashBytes := h.Compute("teststring")
	require.Equal(t, crypto.Keccak256([]byte("teststring")), hashBytes)
}

func TestKeccak256Writer(t *testing.T) {
	h := NewKeccak256Hasher()
	_, _ = h.Writer().Write([]byte{0x01})
	_, _ = h.Writer().Write([]byte("payload"))
	require.Equal(t, crypto.Keccak256([]byte{0x01}, []byte("payload")), h.Bytes())
	require.Equal(t, h.Bytes(), Keccak256([]byte{0x01}, []byte("payload")))

	h.Reset()
	require.Equal(t, Keccak256(), h.Bytes())
}
