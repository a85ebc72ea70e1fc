package eip2930

import (
	"bytes"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/TopiaNetwork/ethtx/codec"
	tpcodecrlp "github.com/TopiaNetwork/ethtx/codec/rlp"
	tpcmm "github.com/TopiaNetwork/ethtx/common"
	"github.com/TopiaNetwork/ethtx/configuration"
	tpcrtypes "github.com/TopiaNetwork/ethtx/crypt/types"
	"github.com/TopiaNetwork/ethtx/transaction/accesslist"
	txbasic "github.com/TopiaNetwork/ethtx/transaction/basic"
)

// TransactionTypeID is the envelope byte of access list transactions.
const TransactionTypeID = byte(txbasic.TransactionType_AccessList)

// AccessListTransaction is the typed transaction
// 0x01 || rlp([chainId, nonce, gasPrice, gasLimit, to, value, data, accessList, v, r, s]).
type AccessListTransaction struct {
	txbasic.TransactionCommon

	chainID    *big.Int
	accessList accesslist.Bytes
}

var _ txbasic.Transaction = (*AccessListTransaction)(nil)

func NewAccessListTransaction(data txbasic.TxData, opts *txbasic.TxOptions) (*AccessListTransaction, error) {
	txCommon, err := txbasic.NewTransactionCommon(txbasic.TransactionType_AccessList, data, opts)
	if err != nil {
		return nil, err
	}

	if !txCommon.IsFeatureActive(configuration.EIP_AccessList) {
		return nil, tpcmm.ValidationErrorf("EIP-2930 not enabled on the chain profile")
	}

	al, err := data.AccessListInput()
	if err != nil {
		return nil, err
	}

	tx := &AccessListTransaction{
		TransactionCommon: txCommon,
		accessList:        al,
	}

	profileChainID := txCommon.ProfileChainID()
	if data.ChainID == nil {
		tx.chainID = profileChainID
	} else {
		tx.chainID = new(big.Int).Set(data.ChainID)
	}
	if tx.chainID.Cmp(profileChainID) != 0 {
		return nil, tpcmm.ValidationErrorf("the chain id %s does not match the chain id of the chain profile %s", tx.chainID.String(), profileChainID.String())
	}

	if v, _, _ := tx.RawSignatureValues(); v != nil && v.Sign() != 0 && v.Cmp(big.NewInt(1)) != 0 {
		return nil, tpcmm.ValidationErrorf("the y-parity of the transaction should either be 0 or 1, given %s", v.String())
	}

	if err = tx.CheckMalleability(); err != nil {
		return nil, err
	}

	return tx, nil
}

// FromSerializedTx decodes the envelope 0x01 || rlp(values).
func FromSerializedTx(serialized []byte, opts *txbasic.TxOptions) (*AccessListTransaction, error) {
	if len(serialized) == 0 || serialized[0] != TransactionTypeID {
		return nil, tpcmm.ValidationErrorf("invalid serialized tx input: not an EIP-2930 transaction (wrong tx type, expected: %d)", TransactionTypeID)
	}

	values, err := tpcodecrlp.DecodeList(serialized[1:])
	if err != nil {
		if errors.Is(err, tpcodecrlp.ErrNotList) {
			return nil, tpcmm.ValidationErrorf("invalid serialized tx input, must be array")
		}
		return nil, tpcmm.ValidationErrorf("invalid serialized tx input: %v", err)
	}

	return FromValuesArray(values, opts)
}

// FromValuesArray builds a transaction from decoded wire values, 8 unsigned or 11 signed.
func FromValuesArray(values []interface{}, opts *txbasic.TxOptions) (*AccessListTransaction, error) {
	if len(values) != 8 && len(values) != 11 {
		return nil, tpcmm.ValidationErrorf("invalid EIP-2930 transaction, list must have 8 or 11 values, given %d", len(values))
	}

	fields := make([][]byte, len(values))
	for i := range values {
		if i == 7 {
			continue
		}
		b, err := tpcodecrlp.BytesAt(values, i)
		if err != nil {
			return nil, tpcmm.ValidationErrorf("invalid EIP-2930 transaction: %v", err)
		}
		fields[i] = b
	}

	rawAccessList, err := tpcodecrlp.ListAt(values, 7)
	if err != nil {
		return nil, tpcmm.ValidationErrorf("invalid EIP-2930 transaction: %v", err)
	}

	txType := uint64(TransactionTypeID)
	data := txbasic.TxData{
		Type:            &txType,
		ChainID:         new(big.Int).SetBytes(fields[0]),
		Nonce:           new(big.Int).SetBytes(fields[1]),
		GasPrice:        new(big.Int).SetBytes(fields[2]),
		GasLimit:        new(big.Int).SetBytes(fields[3]),
		To:              fields[4],
		Value:           new(big.Int).SetBytes(fields[5]),
		Data:            fields[6],
		AccessListBytes: rawAccessList,
	}
	// An all-empty signature triple is an unsigned transaction.
	if len(fields) == 11 && len(fields[8])+len(fields[9])+len(fields[10]) > 0 {
		data.V = new(big.Int).SetBytes(fields[8])
		if len(fields[9]) > 0 {
			data.R = new(big.Int).SetBytes(fields[9])
		}
		if len(fields[10]) > 0 {
			data.S = new(big.Int).SetBytes(fields[10])
		}
	}

	return NewAccessListTransaction(data, opts)
}

func (tx *AccessListTransaction) ChainID() *big.Int {
	return new(big.Int).Set(tx.chainID)
}

// AccessList returns the binary form of the access list.
func (tx *AccessListTransaction) AccessList() accesslist.Bytes {
	return tx.accessList.Copy()
}

// AccessListJSON returns the access list with addresses and keys padded to full length.
func (tx *AccessListTransaction) AccessListJSON() accesslist.AccessList {
	return tx.accessList.PaddedJSON()
}

// YParity is v, the recovery bit of the signature. It is nil when unsigned.
func (tx *AccessListTransaction) YParity() *big.Int {
	v, _, _ := tx.RawSignatureValues()
	return v
}

func (tx *AccessListTransaction) SenderR() *big.Int {
	_, r, _ := tx.RawSignatureValues()
	return r
}

func (tx *AccessListTransaction) SenderS() *big.Int {
	_, _, s := tx.RawSignatureValues()
	return s
}

// DataFee adds the access list costs to the calldata cost.
func (tx *AccessListTransaction) DataFee() *big.Int {
	profile := tx.Profile()
	cost := tx.TransactionCommon.DataFee()

	addressCost := new(big.Int).SetUint64(profile.GasPrice(configuration.Param_AccessListAddressCost))
	storageKeyCost := new(big.Int).SetUint64(profile.GasPrice(configuration.Param_AccessListStorageKeyCost))

	cost.Add(cost, addressCost.Mul(addressCost, big.NewInt(int64(len(tx.accessList)))))
	cost.Add(cost, storageKeyCost.Mul(storageKeyCost, big.NewInt(int64(tx.accessList.StorageKeyCount()))))

	return cost
}

func (tx *AccessListTransaction) BaseFee() *big.Int {
	return tx.BaseFeeFor(tx.DataFee())
}

func (tx *AccessListTransaction) unsignedRaw() []interface{} {
	values := append([]interface{}{tpcodecrlp.BigToBytes(tx.chainID)}, tx.RawCommon()...)
	return append(values, tx.accessList.Raw())
}

func (tx *AccessListTransaction) Raw() []interface{} {
	return append(tx.unsignedRaw(), tx.RawSignature()...)
}

func envelope(values []interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(TransactionTypeID)
	if err := codec.CreateEncoder(codec.CodecType_RLP, &buf).Encode(values); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (tx *AccessListTransaction) Serialize() ([]byte, error) {
	return envelope(tx.Raw())
}

// MessageToSign is keccak256(0x01 || rlp(first eight values)).
func (tx *AccessListTransaction) MessageToSign() ([]byte, error) {
	encoded, err := envelope(tx.unsignedRaw())
	if err != nil {
		return nil, err
	}
	return tpcmm.Keccak256(encoded), nil
}

func (tx *AccessListTransaction) MessageToVerifySignature() ([]byte, error) {
	return tx.MessageToSign()
}

func (tx *AccessListTransaction) Hash() ([]byte, error) {
	if err := tx.RequireSigned("hash"); err != nil {
		return nil, err
	}

	serialized, err := tx.Serialize()
	if err != nil {
		return nil, err
	}
	return tpcmm.Keccak256(serialized), nil
}

func (tx *AccessListTransaction) SenderPublicKey() (tpcrtypes.PublicKey, error) {
	if err := tx.RequireSigned("sender public key"); err != nil {
		return nil, err
	}

	msgHash, err := tx.MessageToVerifySignature()
	if err != nil {
		return nil, err
	}

	v, _, _ := tx.RawSignatureValues()
	return tx.RecoverPublicKey(msgHash, v.Add(v, big.NewInt(27)), nil)
}

func (tx *AccessListTransaction) SenderAddress() (common.Address, error) {
	pubKey, err := tx.SenderPublicKey()
	if err != nil {
		return common.Address{}, err
	}
	return tx.AddressOf(pubKey)
}

func (tx *AccessListTransaction) VerifySignature() bool {
	return tx.VerifyWith(tx.SenderPublicKey)
}

func (tx *AccessListTransaction) txData() txbasic.TxData {
	data := tx.TxData()
	txType := uint64(TransactionTypeID)
	data.Type = &txType
	data.ChainID = tx.ChainID()
	data.AccessListBytes = tx.accessList.Raw()
	return data
}

func (tx *AccessListTransaction) processSignature(v uint64, r, s []byte) (txbasic.Transaction, error) {
	data := tx.txData()
	data.V = new(big.Int).SetUint64(v - 27)
	data.R = new(big.Int).SetBytes(r)
	data.S = new(big.Int).SetBytes(s)

	return NewAccessListTransaction(data, tx.Options())
}

// Sign returns a signed copy; tx itself is not modified.
func (tx *AccessListTransaction) Sign(priKey tpcrtypes.PrivateKey) (txbasic.Transaction, error) {
	msgHash, err := tx.MessageToSign()
	if err != nil {
		return nil, err
	}
	return tx.SignWith(priKey, msgHash, tx.processSignature)
}

func (tx *AccessListTransaction) Verify() error {
	return txbasic.ApplyTransactionVerifiers(tx.Logger(), tx, txbasic.BasicVerifiers()...)
}

func (tx *AccessListTransaction) Validate() bool {
	return tx.Verify() == nil
}

func (tx *AccessListTransaction) ValidationErrors() []string {
	return txbasic.ErrorStrings(tx.Verify())
}

func (tx *AccessListTransaction) ToJSON() *txbasic.JsonTx {
	jTx := tx.BaseJSON()
	jTx.Type = "0x1"
	jTx.ChainID = hexutil.EncodeBig(tx.chainID)
	accessListJSON := tx.AccessListJSON()
	jTx.AccessList = &accessListJSON
	return jTx
}

func (tx *AccessListTransaction) MarshalJSON() ([]byte, error) {
	return codec.CreateMarshaler(codec.CodecType_JSON).Marshal(tx.ToJSON())
}

// ToGeth converts to the go-ethereum representation.
func (tx *AccessListTransaction) ToGeth() (*types.Transaction, error) {
	nonce, gasLimit := tx.Nonce(), tx.GasLimit()
	if !nonce.IsUint64() || !gasLimit.IsUint64() {
		return nil, tpcmm.ValidationErrorf("nonce and gasLimit must fit in 64 bits")
	}

	v, r, s := tx.RawSignatureValues()

	return types.NewTx(&types.AccessListTx{
		ChainID:    tx.ChainID(),
		Nonce:      nonce.Uint64(),
		GasPrice:   tx.GasPrice(),
		Gas:        gasLimit.Uint64(),
		To:         tx.To(),
		Value:      tx.Value(),
		Data:       tx.Data(),
		AccessList: tx.accessList.ToGeth(),
		V:          zeroIfAbsent(v),
		R:          zeroIfAbsent(r),
		S:          zeroIfAbsent(s),
	}), nil
}

func zeroIfAbsent(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
