package common

import (
	"hash"
	"io"

	"golang.org/x/crypto/sha3"
)

const HashLength = 32

type Hasher interface {
	Compute(string) []byte
	Size() int
	Writer() io.Writer
	Bytes() []byte
	Reset()
}

type keccak256Hasher struct {
	hash hash.Hash
}

// NewKeccak256Hasher returns the legacy (pre-NIST) Keccak-256 used for
// Ethereum hashes and addresses. It is not safe for concurrent use.
func NewKeccak256Hasher() Hasher {
	return &keccak256Hasher{
		sha3.NewLegacyKeccak256(),
	}
}

func (kh *keccak256Hasher) Compute(s string) []byte {
	kh.hash.Reset()
	_, _ = kh.hash.Write([]byte(s))
	return kh.hash.Sum(nil)
}

func (kh *keccak256Hasher) Size() int {
	return kh.hash.Size()
}

func (kh *keccak256Hasher) Writer() io.Writer {
	return kh.hash
}

func (kh *keccak256Hasher) Bytes() []byte {
	return kh.hash.Sum(nil)
}

func (kh *keccak256Hasher) Reset() {
	kh.hash.Reset()
}

func Keccak256(data ...[]byte) []byte {
	h := NewKeccak256Hasher()
	for _, d := range data {
		_, _ = h.Writer().Write(d)
	}
	return h.Bytes()
}
