package secp256

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"lukechampine.com/frand"

	tpcmm "github.com/TopiaNetwork/ethtx/common"
	tpcrtypes "github.com/TopiaNetwork/ethtx/crypt/types"
	tplog "github.com/TopiaNetwork/ethtx/log"
)

const (
	PublicKeyBytes            = 64 //64 bytes, no 0x04 prefix
	PrivateKeyBytes           = 32 //32 bytes
	SignatureRecoverableBytes = 65 //65 bytes
	MsgBytes                  = 32 //32 bytes
	SeedBytes                 = 32 // 32 bytes
	maxLoopCreateSeckey       = 3
)

var (
	// N is the order of the secp256k1 group.
	N = new(big.Int).Set(crypto.S256().Params().N)
	// HalfN is N/2; signatures with a larger s are malleable.
	HalfN = new(big.Int).Rsh(N, 1)
)

var ErrInvalidRecoveryID = errors.New("invalid signature v value")

type CryptServiceSecp256 struct {
	log tplog.Logger
}

func New(log tplog.Logger) *CryptServiceSecp256 {
	if log == nil {
		log = tplog.CreateNopLogger()
	}
	return &CryptServiceSecp256{log}
}

func (c *CryptServiceSecp256) CryptType() tpcrtypes.CryptType {
	return tpcrtypes.CryptType_Secp256
}

func (c *CryptServiceSecp256) GeneratePriPubKey() (tpcrtypes.PrivateKey, tpcrtypes.PublicKey, error) {
	var seckey [PrivateKeyBytes]byte

	for i := 0; i < maxLoopCreateSeckey; i++ {
		frand.Read(seckey[:])
		if pubkey, err := c.ConvertToPublic(seckey[:]); err == nil {
			return seckey[:], pubkey, nil
		}
	}

	err := errors.New("secp256 GeneratePriPubKey: no valid secret key generated")
	c.log.Error(err.Error())
	return nil, nil, err
}

func (c *CryptServiceSecp256) GeneratePriPubKeyBySeed(seed []byte) (tpcrtypes.PrivateKey, tpcrtypes.PublicKey, error) {
	if len(seed) != SeedBytes {
		return nil, nil, errors.New("seed length incorrect")
	}

	seckey := sha256.Sum256(seed)
	for i := 0; i < maxLoopCreateSeckey; i++ {
		if pubkey, err := c.ConvertToPublic(seckey[:]); err == nil {
			return seckey[:], pubkey, nil
		}
		seckey = sha256.Sum256(seckey[:])
	}

	err := errors.New("secp256 GeneratePriPubKeyBySeed: no valid secret key derived")
	c.log.Error(err.Error())
	return nil, nil, err
}

func (c *CryptServiceSecp256) ConvertToPublic(priKey tpcrtypes.PrivateKey) (tpcrtypes.PublicKey, error) {
	if len(priKey) != PrivateKeyBytes {
		return nil, errors.New("secp256 ConvertToPublic input seckey incorrect")
	}

	key, err := crypto.ToECDSA(priKey)
	if err != nil {
		return nil, err
	}

	return crypto.FromECDSAPub(&key.PublicKey)[1:], nil
}

func (c *CryptServiceSecp256) Sign(priKey tpcrtypes.PrivateKey, msgHash []byte) (tpcrtypes.Signature, error) {
	if len(priKey) != PrivateKeyBytes || len(msgHash) != MsgBytes {
		return nil, errors.New("secp256 Sign input invalid parameter")
	}

	key, err := crypto.ToECDSA(priKey)
	if err != nil {
		return nil, err
	}

	return crypto.Sign(msgHash, key)
}

func (c *CryptServiceSecp256) RecoverPublicKey(msgHash []byte, signData tpcrtypes.Signature) (tpcrtypes.PublicKey, error) {
	if len(msgHash) != MsgBytes || len(signData) != SignatureRecoverableBytes {
		return nil, errors.New("input wrong parameter")
	}

	r := new(big.Int).SetBytes(signData[:32])
	s := new(big.Int).SetBytes(signData[32:64])
	if !crypto.ValidateSignatureValues(signData[64], r, s, false) {
		return nil, errors.New("invalid signature values")
	}

	pubkey, err := crypto.Ecrecover(msgHash, signData)
	if err != nil {
		c.log.Debugf("secp256 ecrecover failed: %v", err)
		return nil, err
	}

	return pubkey[1:], nil
}

// CreateAddress takes the last 20 bytes of keccak256(pubKey).
func (c *CryptServiceSecp256) CreateAddress(pubKey tpcrtypes.PublicKey) (tpcrtypes.Address, error) {
	if len(pubKey) != PublicKeyBytes {
		return common.Address{}, fmt.Errorf("invalid public key: len %d, expected %d", len(pubKey), PublicKeyBytes)
	}

	addressHash := tpcmm.Keccak256(pubKey)

	return common.BytesToAddress(addressHash[tpcmm.HashLength-tpcrtypes.AddressLen_ETH:]), nil
}

// SplitSignature returns the transaction form of a recoverable signature,
// with v = 27 + recid.
func SplitSignature(signData tpcrtypes.Signature) (v uint64, r, s []byte, err error) {
	if len(signData) != SignatureRecoverableBytes {
		return 0, nil, nil, fmt.Errorf("invalid signature: len %d, expected %d", len(signData), SignatureRecoverableBytes)
	}

	return uint64(signData[64]) + 27, tpcmm.BytesCopy(signData[:32]), tpcmm.BytesCopy(signData[32:64]), nil
}

// JoinSignature builds a recoverable signature from transaction values. With
// a chain id, v is read as v = recid + chainId*2 + 35; otherwise as v = recid + 27.
func JoinSignature(v *big.Int, r, s []byte, chainID *big.Int) (tpcrtypes.Signature, error) {
	if v == nil {
		return nil, ErrInvalidRecoveryID
	}
	if len(r) > 32 || len(s) > 32 {
		return nil, errors.New("invalid signature: r or s longer than 32 bytes")
	}

	recID := new(big.Int)
	if chainID != nil {
		recID.Sub(v, new(big.Int).Add(new(big.Int).Lsh(chainID, 1), big.NewInt(35)))
	} else {
		recID.Sub(v, big.NewInt(27))
	}
	if recID.Sign() < 0 || recID.Cmp(big.NewInt(1)) > 0 {
		return nil, ErrInvalidRecoveryID
	}

	signData := make([]byte, SignatureRecoverableBytes)
	copy(signData[:32], tpcmm.LeftPadBytes(r, 32))
	copy(signData[32:64], tpcmm.LeftPadBytes(s, 32))
	signData[64] = byte(recID.Uint64())

	return signData, nil
}
