package crypt

import (
	"github.com/TopiaNetwork/ethtx/crypt/secp256"
	tpcrtypes "github.com/TopiaNetwork/ethtx/crypt/types"
	tplog "github.com/TopiaNetwork/ethtx/log"
	tplogcmm "github.com/TopiaNetwork/ethtx/log/common"
)

type CryptService interface {
	CryptType() tpcrtypes.CryptType

	GeneratePriPubKey() (tpcrtypes.PrivateKey, tpcrtypes.PublicKey, error)

	GeneratePriPubKeyBySeed(seed []byte) (tpcrtypes.PrivateKey, tpcrtypes.PublicKey, error)

	ConvertToPublic(priKey tpcrtypes.PrivateKey) (tpcrtypes.PublicKey, error)

	// Sign signs a 32 byte message hash.
	Sign(priKey tpcrtypes.PrivateKey, msgHash []byte) (tpcrtypes.Signature, error)

	RecoverPublicKey(msgHash []byte, signData tpcrtypes.Signature) (tpcrtypes.PublicKey, error)

	CreateAddress(pubKey tpcrtypes.PublicKey) (tpcrtypes.Address, error)
}

func CreateCryptService(log tplog.Logger, cryptType tpcrtypes.CryptType) CryptService {
	cryptLog := tplog.CreateModuleLogger(tplogcmm.InfoLevel, "crypt", log)
	switch cryptType {
	case tpcrtypes.CryptType_Secp256:
		return secp256.New(cryptLog)
	default:
		cryptLog.Panicf("invalid crypt type %d", cryptType)
	}

	return nil
}
