package basic

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/TopiaNetwork/ethtx/configuration"
	tpcrtypes "github.com/TopiaNetwork/ethtx/crypt/types"
	tplog "github.com/TopiaNetwork/ethtx/log"
)

// Transaction is implemented by every concrete transaction type.
type Transaction interface {
	Type() TransactionType

	Nonce() *big.Int
	GasPrice() *big.Int
	GasLimit() *big.Int
	To() *common.Address
	Value() *big.Int
	Data() []byte
	RawSignatureValues() (v, r, s *big.Int)
	Profile() *configuration.ChainProfile
	Logger() tplog.Logger

	// Raw is the ordered list of wire values, before RLP encoding.
	Raw() []interface{}
	Serialize() ([]byte, error)
	// MessageToSign is the hash a signer signs.
	MessageToSign() ([]byte, error)
	MessageToVerifySignature() ([]byte, error)
	// Hash identifies a signed transaction.
	Hash() ([]byte, error)

	SenderPublicKey() (tpcrtypes.PublicKey, error)
	SenderAddress() (common.Address, error)
	VerifySignature() bool
	Sign(priKey tpcrtypes.PrivateKey) (Transaction, error)

	Verify() error
	Validate() bool
	ValidationErrors() []string

	DataFee() *big.Int
	BaseFee() *big.Int
	UpfrontCost() *big.Int

	ToCreationAddress() bool
	IsSigned() bool
	IsFrozen() bool

	ToJSON() *JsonTx
}
