package basic

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	tpcodecrlp "github.com/TopiaNetwork/ethtx/codec/rlp"
	tpcmm "github.com/TopiaNetwork/ethtx/common"
	"github.com/TopiaNetwork/ethtx/configuration"
	tpcrt "github.com/TopiaNetwork/ethtx/crypt"
	tplog "github.com/TopiaNetwork/ethtx/log"
)

// TransactionCommon holds the fields and behavior shared by every
// transaction type. Concrete types embed it.
type TransactionCommon struct {
	txType   TransactionType
	nonce    *big.Int
	gasPrice *big.Int
	gasLimit *big.Int
	to       *common.Address
	value    *big.Int
	data     []byte
	v        *big.Int
	r        *big.Int
	s        *big.Int

	profile *configuration.ChainProfile
	frozen  bool
	log     tplog.Logger
	baseLog tplog.Logger
	crypt   tpcrt.CryptService
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

func NewTransactionCommon(txType TransactionType, data TxData, opts *TxOptions) (TransactionCommon, error) {
	profile, log, cryptService, mutable := opts.resolve(txType)

	c := TransactionCommon{
		txType:   txType,
		nonce:    bigOrZero(data.Nonce),
		gasPrice: bigOrZero(data.GasPrice),
		gasLimit: bigOrZero(data.GasLimit),
		value:    bigOrZero(data.Value),
		data:     tpcmm.BytesCopy(data.Data),
		v:        tpcmm.BigCopy(data.V),
		r:        tpcmm.BigCopy(data.R),
		s:        tpcmm.BigCopy(data.S),
		profile:  profile,
		frozen:   !mutable,
		log:      log,
		crypt:    cryptService,
	}
	if opts != nil {
		c.baseLog = opts.Log
	}

	if len(data.To) > 0 {
		if len(data.To) != common.AddressLength {
			return TransactionCommon{}, tpcmm.ValidationErrorf("invalid address length: %d, expected %d", len(data.To), common.AddressLength)
		}
		to := common.BytesToAddress(data.To)
		c.to = &to
	}

	if c.v != nil && c.v.Sign() < 0 {
		return TransactionCommon{}, tpcmm.ValidationErrorf("v cannot be negative, given %s", c.v.String())
	}

	bounded := []struct {
		name  string
		value *big.Int
	}{
		{"nonce", c.nonce},
		{"gasPrice", c.gasPrice},
		{"gasLimit", c.gasLimit},
		{"value", c.value},
		{"r", c.r},
		{"s", c.s},
	}
	for _, b := range bounded {
		if err := tpcmm.CheckUint256(b.name, b.value); err != nil {
			return TransactionCommon{}, err
		}
	}

	return c, nil
}

func (c *TransactionCommon) Type() TransactionType {
	return c.txType
}

func (c *TransactionCommon) Nonce() *big.Int {
	return new(big.Int).Set(c.nonce)
}

func (c *TransactionCommon) GasPrice() *big.Int {
	return new(big.Int).Set(c.gasPrice)
}

func (c *TransactionCommon) GasLimit() *big.Int {
	return new(big.Int).Set(c.gasLimit)
}

// To returns nil for contract creation.
func (c *TransactionCommon) To() *common.Address {
	if c.to == nil {
		return nil
	}
	to := *c.to
	return &to
}

func (c *TransactionCommon) Value() *big.Int {
	return new(big.Int).Set(c.value)
}

func (c *TransactionCommon) Data() []byte {
	return tpcmm.BytesCopy(c.data)
}

// RawSignatureValues returns copies of v, r and s; absent values are nil.
func (c *TransactionCommon) RawSignatureValues() (v, r, s *big.Int) {
	return tpcmm.BigCopy(c.v), tpcmm.BigCopy(c.r), tpcmm.BigCopy(c.s)
}

// Profile returns a snapshot of the rules the transaction was built under.
func (c *TransactionCommon) Profile() *configuration.ChainProfile {
	return c.profile.Snapshot()
}

func (c *TransactionCommon) Logger() tplog.Logger {
	return c.log
}

func (c *TransactionCommon) IsFrozen() bool {
	return c.frozen
}

func (c *TransactionCommon) IsSigned() bool {
	return c.v != nil && c.r != nil && c.s != nil
}

func (c *TransactionCommon) ToCreationAddress() bool {
	return c.to == nil
}

// Options reproduces the construction options, used when deriving a new
// instance such as the signed copy. The result is frozen.
func (c *TransactionCommon) Options() *TxOptions {
	return &TxOptions{
		Profile: c.profile.Snapshot(),
		Log:     c.baseLog,
		Crypt:   c.crypt,
	}
}

// TxData returns the common fields as a dictionary.
func (c *TransactionCommon) TxData() TxData {
	data := TxData{
		Nonce:    c.Nonce(),
		GasPrice: c.GasPrice(),
		GasLimit: c.GasLimit(),
		Value:    c.Value(),
		Data:     c.Data(),
		V:        tpcmm.BigCopy(c.v),
		R:        tpcmm.BigCopy(c.r),
		S:        tpcmm.BigCopy(c.s),
	}
	if c.to != nil {
		data.To = c.to.Bytes()
	}
	return data
}

// RawCommon is the wire form of nonce, gasPrice, gasLimit, to, value and data.
func (c *TransactionCommon) RawCommon() []interface{} {
	to := []byte{}
	if c.to != nil {
		to = c.to.Bytes()
	}

	return []interface{}{
		tpcodecrlp.BigToBytes(c.nonce),
		tpcodecrlp.BigToBytes(c.gasPrice),
		tpcodecrlp.BigToBytes(c.gasLimit),
		to,
		tpcodecrlp.BigToBytes(c.value),
		tpcmm.BytesCopy(c.data),
	}
}

// RawSignature is the wire form of v, r and s; absent values encode as empty strings.
func (c *TransactionCommon) RawSignature() []interface{} {
	return []interface{}{
		tpcodecrlp.BigToBytes(c.v),
		tpcodecrlp.BigToBytes(c.r),
		tpcodecrlp.BigToBytes(c.s),
	}
}

// DataFee charges every calldata byte: zero bytes at txDataZero, others at txDataNonZero.
func (c *TransactionCommon) DataFee() *big.Int {
	zeroCost := c.profile.GasPrice(configuration.Param_TxDataZero)
	nonZeroCost := c.profile.GasPrice(configuration.Param_TxDataNonZero)

	var cost uint64
	for _, b := range c.data {
		if b == 0 {
			cost += zeroCost
		} else {
			cost += nonZeroCost
		}
	}

	return new(big.Int).SetUint64(cost)
}

// BaseFeeFor is the intrinsic gas given the type specific data fee.
func (c *TransactionCommon) BaseFeeFor(dataFee *big.Int) *big.Int {
	fee := new(big.Int).Add(dataFee, new(big.Int).SetUint64(c.profile.GasPrice(configuration.Param_Tx)))
	if c.profile.HardforkAtLeast(configuration.Hardfork_Homestead) && c.ToCreationAddress() {
		fee.Add(fee, new(big.Int).SetUint64(c.profile.GasPrice(configuration.Param_TxCreation)))
	}
	return fee
}

// UpfrontCost is gasLimit * gasPrice + value.
func (c *TransactionCommon) UpfrontCost() *big.Int {
	return tpcmm.SafeAdd(tpcmm.SafeMul(c.gasLimit, c.gasPrice), c.value)
}

func (c *TransactionCommon) ensureMutable(field string) error {
	if c.frozen {
		return tpcmm.StateErrorf("cannot set %s on a frozen transaction", field)
	}
	return nil
}

func (c *TransactionCommon) setBounded(field string, dst **big.Int, v *big.Int) error {
	if err := c.ensureMutable(field); err != nil {
		return err
	}
	nv := bigOrZero(v)
	if err := tpcmm.CheckUint256(field, nv); err != nil {
		return err
	}
	*dst = nv
	return nil
}

func (c *TransactionCommon) SetNonce(nonce *big.Int) error {
	return c.setBounded("nonce", &c.nonce, nonce)
}

func (c *TransactionCommon) SetGasPrice(gasPrice *big.Int) error {
	return c.setBounded("gasPrice", &c.gasPrice, gasPrice)
}

func (c *TransactionCommon) SetGasLimit(gasLimit *big.Int) error {
	return c.setBounded("gasLimit", &c.gasLimit, gasLimit)
}

func (c *TransactionCommon) SetValue(value *big.Int) error {
	return c.setBounded("value", &c.value, value)
}

// SetTo with nil turns the transaction into a contract creation.
func (c *TransactionCommon) SetTo(to *common.Address) error {
	if err := c.ensureMutable("to"); err != nil {
		return err
	}
	if to == nil {
		c.to = nil
		return nil
	}
	addr := *to
	c.to = &addr
	return nil
}

func (c *TransactionCommon) SetData(data []byte) error {
	if err := c.ensureMutable("data"); err != nil {
		return err
	}
	c.data = tpcmm.BytesCopy(data)
	return nil
}

func (c *TransactionCommon) HardforkAtLeast(hardfork configuration.Hardfork) bool {
	return c.profile.HardforkAtLeast(hardfork)
}

func (c *TransactionCommon) IsFeatureActive(eip uint) bool {
	return c.profile.IsFeatureActive(eip)
}

// ProfileChainID is the chain id of the profile snapshot.
func (c *TransactionCommon) ProfileChainID() *big.Int {
	return c.profile.ChainID()
}
