package legacy

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/TopiaNetwork/ethtx/codec"
	tpcodecrlp "github.com/TopiaNetwork/ethtx/codec/rlp"
	tpcmm "github.com/TopiaNetwork/ethtx/common"
	"github.com/TopiaNetwork/ethtx/configuration"
	tpcrtypes "github.com/TopiaNetwork/ethtx/crypt/types"
	txbasic "github.com/TopiaNetwork/ethtx/transaction/basic"
)

// LegacyTransaction is the untyped transaction:
// rlp([nonce, gasPrice, gasLimit, to, value, data, v, r, s]).
type LegacyTransaction struct {
	txbasic.TransactionCommon
}

var _ txbasic.Transaction = (*LegacyTransaction)(nil)

func NewLegacyTransaction(data txbasic.TxData, opts *txbasic.TxOptions) (*LegacyTransaction, error) {
	txCommon, err := txbasic.NewTransactionCommon(txbasic.TransactionType_Legacy, data, opts)
	if err != nil {
		return nil, err
	}

	tx := &LegacyTransaction{TransactionCommon: txCommon}
	if err = tx.validateTxV(); err != nil {
		return nil, err
	}

	return tx, nil
}

func FromSerializedTx(serialized []byte, opts *txbasic.TxOptions) (*LegacyTransaction, error) {
	values, err := tpcodecrlp.DecodeList(serialized)
	if err != nil {
		if errors.Is(err, tpcodecrlp.ErrNotList) {
			return nil, tpcmm.ValidationErrorf("invalid serialized tx input, must be array")
		}
		return nil, tpcmm.ValidationErrorf("invalid serialized tx input: %v", err)
	}

	return FromValuesArray(values, opts)
}

func optionalBig(b []byte) *big.Int {
	if len(b) == 0 {
		return nil
	}
	return new(big.Int).SetBytes(b)
}

// FromValuesArray builds a transaction from decoded wire values, 6 unsigned or 9 signed.
func FromValuesArray(values []interface{}, opts *txbasic.TxOptions) (*LegacyTransaction, error) {
	if len(values) != 6 && len(values) != 9 {
		return nil, tpcmm.ValidationErrorf("invalid transaction, list must have 6 or 9 values, given %d", len(values))
	}

	fields := make([][]byte, len(values))
	for i := range values {
		b, err := tpcodecrlp.BytesAt(values, i)
		if err != nil {
			return nil, tpcmm.ValidationErrorf("invalid transaction: %v", err)
		}
		fields[i] = b
	}

	data := txbasic.TxData{
		Nonce:    new(big.Int).SetBytes(fields[0]),
		GasPrice: new(big.Int).SetBytes(fields[1]),
		GasLimit: new(big.Int).SetBytes(fields[2]),
		To:       fields[3],
		Value:    new(big.Int).SetBytes(fields[4]),
		Data:     fields[5],
	}
	if len(fields) == 9 {
		data.V = optionalBig(fields[6])
		data.R = optionalBig(fields[7])
		data.S = optionalBig(fields[8])
	}

	return NewLegacyTransaction(data, opts)
}

// v must be 27/28 or follow EIP-155 for the profile's chain once replay
// protection is active. An absent or zero v is not checked.
func (tx *LegacyTransaction) validateTxV() error {
	v, _, _ := tx.RawSignatureValues()
	if v == nil || v.Sign() == 0 {
		return nil
	}
	if !tx.HardforkAtLeast(configuration.Hardfork_SpuriousDragon) {
		return nil
	}
	if v.Cmp(big.NewInt(27)) == 0 || v.Cmp(big.NewInt(28)) == 0 {
		return nil
	}
	if !tx.isEIP155V(v) {
		return tpcmm.ValidationErrorf("incompatible EIP155-based V %s and chain id %s, set the chain id in the chain profile", v.String(), tx.ProfileChainID().String())
	}

	return nil
}

func (tx *LegacyTransaction) isEIP155V(v *big.Int) bool {
	chainIDDoubled := new(big.Int).Lsh(tx.ProfileChainID(), 1)
	return v.Cmp(new(big.Int).Add(chainIDDoubled, big.NewInt(35))) == 0 ||
		v.Cmp(new(big.Int).Add(chainIDDoubled, big.NewInt(36))) == 0
}

func (tx *LegacyTransaction) unsignedTxImplementsEIP155() bool {
	return tx.HardforkAtLeast(configuration.Hardfork_SpuriousDragon)
}

// IsEIP155Signed reports whether the signature commits to the chain id.
func (tx *LegacyTransaction) IsEIP155Signed() (bool, error) {
	if !tx.IsSigned() {
		return false, tpcmm.StateErrorf("this transaction is not signed")
	}
	v, _, _ := tx.RawSignatureValues()

	return tx.isEIP155V(v) && tx.HardforkAtLeast(configuration.Hardfork_SpuriousDragon), nil
}

func (tx *LegacyTransaction) Raw() []interface{} {
	return append(tx.RawCommon(), tx.RawSignature()...)
}

func (tx *LegacyTransaction) Serialize() ([]byte, error) {
	return codec.CreateMarshaler(codec.CodecType_RLP).Marshal(tx.Raw())
}

// MessageToSignRaw is the list the signing hash is taken over. With EIP-155
// it carries the chain id followed by two empty strings.
func (tx *LegacyTransaction) MessageToSignRaw(withEIP155 bool) []interface{} {
	values := tx.RawCommon()
	if withEIP155 {
		values = append(values, tpcodecrlp.BigToBytes(tx.ProfileChainID()), []byte{}, []byte{})
	}
	return values
}

func (tx *LegacyTransaction) messageHash(withEIP155 bool) ([]byte, error) {
	encoded, err := codec.CreateMarshaler(codec.CodecType_RLP).Marshal(tx.MessageToSignRaw(withEIP155))
	if err != nil {
		return nil, err
	}
	return tpcmm.Keccak256(encoded), nil
}

func (tx *LegacyTransaction) MessageToSign() ([]byte, error) {
	return tx.messageHash(tx.unsignedTxImplementsEIP155())
}

func (tx *LegacyTransaction) MessageToVerifySignature() ([]byte, error) {
	withEIP155, err := tx.IsEIP155Signed()
	if err != nil {
		return nil, err
	}
	return tx.messageHash(withEIP155)
}

func (tx *LegacyTransaction) Hash() ([]byte, error) {
	if err := tx.RequireSigned("hash"); err != nil {
		return nil, err
	}

	serialized, err := tx.Serialize()
	if err != nil {
		return nil, err
	}
	return tpcmm.Keccak256(serialized), nil
}

func (tx *LegacyTransaction) SenderPublicKey() (tpcrtypes.PublicKey, error) {
	msgHash, err := tx.MessageToVerifySignature()
	if err != nil {
		return nil, err
	}

	withEIP155, _ := tx.IsEIP155Signed()
	var chainID *big.Int
	if withEIP155 {
		chainID = tx.ProfileChainID()
	}
	v, _, _ := tx.RawSignatureValues()

	return tx.RecoverPublicKey(msgHash, v, chainID)
}

func (tx *LegacyTransaction) SenderAddress() (common.Address, error) {
	pubKey, err := tx.SenderPublicKey()
	if err != nil {
		return common.Address{}, err
	}
	return tx.AddressOf(pubKey)
}

func (tx *LegacyTransaction) VerifySignature() bool {
	return tx.VerifyWith(tx.SenderPublicKey)
}

func (tx *LegacyTransaction) processSignature(v uint64, r, s []byte) (txbasic.Transaction, error) {
	vBig := new(big.Int).SetUint64(v)
	if tx.unsignedTxImplementsEIP155() {
		vBig.Add(vBig, new(big.Int).Add(new(big.Int).Lsh(tx.ProfileChainID(), 1), big.NewInt(8)))
	}

	data := tx.TxData()
	data.V = vBig
	data.R = new(big.Int).SetBytes(r)
	data.S = new(big.Int).SetBytes(s)

	return NewLegacyTransaction(data, tx.Options())
}

// Sign returns a signed copy; tx itself is not modified.
func (tx *LegacyTransaction) Sign(priKey tpcrtypes.PrivateKey) (txbasic.Transaction, error) {
	msgHash, err := tx.MessageToSign()
	if err != nil {
		return nil, err
	}
	return tx.SignWith(priKey, msgHash, tx.processSignature)
}

func (tx *LegacyTransaction) BaseFee() *big.Int {
	return tx.BaseFeeFor(tx.DataFee())
}

func (tx *LegacyTransaction) Verify() error {
	return txbasic.ApplyTransactionVerifiers(tx.Logger(), tx, txbasic.BasicVerifiers()...)
}

func (tx *LegacyTransaction) Validate() bool {
	return tx.Verify() == nil
}

func (tx *LegacyTransaction) ValidationErrors() []string {
	return txbasic.ErrorStrings(tx.Verify())
}

func (tx *LegacyTransaction) ToJSON() *txbasic.JsonTx {
	return tx.BaseJSON()
}

func (tx *LegacyTransaction) MarshalJSON() ([]byte, error) {
	return codec.CreateMarshaler(codec.CodecType_JSON).Marshal(tx.ToJSON())
}

// ToGeth converts to the go-ethereum representation.
func (tx *LegacyTransaction) ToGeth() (*types.Transaction, error) {
	nonce, gasLimit := tx.Nonce(), tx.GasLimit()
	if !nonce.IsUint64() || !gasLimit.IsUint64() {
		return nil, tpcmm.ValidationErrorf("nonce and gasLimit must fit in 64 bits")
	}

	v, r, s := tx.RawSignatureValues()

	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce.Uint64(),
		GasPrice: tx.GasPrice(),
		Gas:      gasLimit.Uint64(),
		To:       tx.To(),
		Value:    tx.Value(),
		Data:     tx.Data(),
		V:        zeroIfAbsent(v),
		R:        zeroIfAbsent(r),
		S:        zeroIfAbsent(s),
	}), nil
}

func zeroIfAbsent(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
