package basic

import (
	"sync"

	"github.com/TopiaNetwork/ethtx/configuration"
	tpcrt "github.com/TopiaNetwork/ethtx/crypt"
	tpcrtypes "github.com/TopiaNetwork/ethtx/crypt/types"
	tplog "github.com/TopiaNetwork/ethtx/log"
)

type TransactionType byte

const (
	TransactionType_Legacy     TransactionType = 0x00
	TransactionType_AccessList TransactionType = 0x01
)

func (t TransactionType) String() string {
	switch t {
	case TransactionType_Legacy:
		return "legacy"
	case TransactionType_AccessList:
		return "accessList"
	}
	return "unknown"
}

// TxOptions configures construction. The zero value selects the default
// chain profile, a frozen instance, no logging and the secp256k1 service.
type TxOptions struct {
	// Profile is snapshotted at construction; later changes to it are not observed.
	Profile *configuration.ChainProfile
	// Mutable produces an unfrozen instance whose setters work.
	Mutable bool
	Log     tplog.Logger
	Crypt   tpcrt.CryptService
}

// defaultCrypt is shared by every transaction built without TxOptions.Crypt.
// Only its recoveries are cached.
var defaultCrypt = sync.OnceValue(func() tpcrt.CryptService {
	return tpcrt.CreateCryptService(tplog.CreateNopLogger(), tpcrtypes.CryptType_Secp256)
})

func (opts *TxOptions) resolve(txType TransactionType) (*configuration.ChainProfile, tplog.Logger, tpcrt.CryptService, bool) {
	if opts == nil {
		opts = &TxOptions{}
	}

	var profile *configuration.ChainProfile
	if opts.Profile != nil {
		profile = opts.Profile.Snapshot()
	} else {
		profile = configuration.DefChainProfile()
	}

	log := opts.Log
	if log == nil {
		log = tplog.CreateNopLogger()
	}
	log = tplog.CreateFieldLogger("txType", txType.String(), log)

	cryptService := opts.Crypt
	if cryptService == nil {
		cryptService = defaultCrypt()
	}

	return profile, log, cryptService, opts.Mutable
}
