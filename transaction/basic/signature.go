package basic

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"

	tpcmm "github.com/TopiaNetwork/ethtx/common"
	"github.com/TopiaNetwork/ethtx/configuration"
	"github.com/TopiaNetwork/ethtx/crypt/secp256"
	tpcrtypes "github.com/TopiaNetwork/ethtx/crypt/types"
)

const senderCacheSize = 1024

// Sender public keys recovered by the default crypt service, keyed by the
// signed message and signature values.
var senderCache, _ = lru.New(senderCacheSize)

func (c *TransactionCommon) cachesSenders() bool {
	return c.crypt == defaultCrypt()
}

// SignatureProcessor turns raw signature output (v = 27 + recid) into the
// signed instance of a concrete transaction type.
type SignatureProcessor func(v uint64, r, s []byte) (Transaction, error)

// SignWith signs msgHash with priKey and hands the result to process. The
// receiver is left untouched.
func (c *TransactionCommon) SignWith(priKey tpcrtypes.PrivateKey, msgHash []byte, process SignatureProcessor) (Transaction, error) {
	if len(priKey) != secp256.PrivateKeyBytes {
		return nil, tpcmm.ValidationErrorf("private key must be %d bytes in length, given %d", secp256.PrivateKeyBytes, len(priKey))
	}

	signData, err := c.crypt.Sign(priKey, msgHash)
	if err != nil {
		return nil, tpcmm.ValidationErrorf("sign: %v", err)
	}

	v, r, s, err := secp256.SplitSignature(signData)
	if err != nil {
		return nil, err
	}

	return process(v, r, s)
}

// CheckMalleability rejects s > secp256k1n/2 once homestead is active.
func (c *TransactionCommon) CheckMalleability() error {
	if c.s != nil && c.profile.HardforkAtLeast(configuration.Hardfork_Homestead) && c.s.Cmp(secp256.HalfN) > 0 {
		return tpcmm.ValidationErrorf("invalid signature: s-values greater than secp256k1n/2 are considered invalid")
	}
	return nil
}

func senderCacheKey(msgHash []byte, v, r, s, chainID *big.Int) string {
	chain := ""
	if chainID != nil {
		chain = chainID.String()
	}
	return fmt.Sprintf("%x:%s:%s:%x:%x", msgHash, chain, v.String(), r.Bytes(), s.Bytes())
}

// RecoverPublicKey recovers the signer of msgHash from r, s and the given
// v. With a chain id, v is read as EIP-155 encoded.
func (c *TransactionCommon) RecoverPublicKey(msgHash []byte, v, chainID *big.Int) (tpcrtypes.PublicKey, error) {
	if !c.IsSigned() {
		return nil, tpcmm.StateErrorf("missing values to recover the sender public key")
	}
	if err := c.CheckMalleability(); err != nil {
		return nil, err
	}

	cached := c.cachesSenders()
	key := senderCacheKey(msgHash, v, c.r, c.s, chainID)
	if cached {
		if pubKey, ok := senderCache.Get(key); ok {
			return tpcmm.BytesCopy(pubKey.(tpcrtypes.PublicKey)), nil
		}
	}

	signData, err := secp256.JoinSignature(v, c.r.Bytes(), c.s.Bytes(), chainID)
	if err != nil {
		return nil, tpcmm.ValidationErrorf("%v", err)
	}

	pubKey, err := c.crypt.RecoverPublicKey(msgHash, signData)
	if err != nil {
		return nil, tpcmm.ValidationErrorf("invalid signature: %v", err)
	}

	if cached {
		senderCache.Add(key, tpcrtypes.PublicKey(tpcmm.BytesCopy(pubKey)))
	}

	return pubKey, nil
}

// VerifyWith reports whether recover yields a public key. Errors are logged and reported as false.
func (c *TransactionCommon) VerifyWith(recover func() (tpcrtypes.PublicKey, error)) bool {
	pubKey, err := recover()
	if err != nil {
		c.log.Debugf("signature verification failed: %v", err)
		return false
	}
	return len(pubKey) != 0
}

func (c *TransactionCommon) AddressOf(pubKey tpcrtypes.PublicKey) (common.Address, error) {
	addr, err := c.crypt.CreateAddress(pubKey)
	if err != nil {
		return common.Address{}, tpcmm.ValidationErrorf("%v", err)
	}
	return addr, nil
}

// RequireSigned returns a state error naming op when the transaction is unsigned.
func (c *TransactionCommon) RequireSigned(op string) error {
	if !c.IsSigned() {
		return tpcmm.StateErrorf("cannot call %s on an unsigned transaction", op)
	}
	return nil
}
