package types

import (
	"github.com/ethereum/go-ethereum/common"
)

type PrivateKey []byte

// PublicKey is the 64 byte uncompressed point without the 0x04 prefix.
type PublicKey []byte

// Signature is the 65 byte recoverable form r || s || recid.
type Signature []byte

type Address = common.Address

const AddressLen_ETH = common.AddressLength

type CryptType byte

const (
	CryptType_Unknown CryptType = iota
	CryptType_Secp256
)

func (ct CryptType) String() string {
	switch ct {
	case CryptType_Secp256:
		return "secp256k1"
	}
	return "unknown"
}
