package transaction

import (
	"github.com/ethereum/go-ethereum/core/types"

	tpcmm "github.com/TopiaNetwork/ethtx/common"
	"github.com/TopiaNetwork/ethtx/configuration"
	txbasic "github.com/TopiaNetwork/ethtx/transaction/basic"
	"github.com/TopiaNetwork/ethtx/transaction/eip2930"
	"github.com/TopiaNetwork/ethtx/transaction/legacy"
)

// TxClass bundles the constructors of one transaction type.
type TxClass struct {
	Type             txbasic.TransactionType
	FromTxData       func(data txbasic.TxData, opts *txbasic.TxOptions) (txbasic.Transaction, error)
	FromSerializedTx func(serialized []byte, opts *txbasic.TxOptions) (txbasic.Transaction, error)
	FromValuesArray  func(values []interface{}, opts *txbasic.TxOptions) (txbasic.Transaction, error)
}

var legacyClass = &TxClass{
	Type: txbasic.TransactionType_Legacy,
	FromTxData: func(data txbasic.TxData, opts *txbasic.TxOptions) (txbasic.Transaction, error) {
		tx, err := legacy.NewLegacyTransaction(data, opts)
		if err != nil {
			return nil, err
		}
		return tx, nil
	},
	FromSerializedTx: func(serialized []byte, opts *txbasic.TxOptions) (txbasic.Transaction, error) {
		tx, err := legacy.FromSerializedTx(serialized, opts)
		if err != nil {
			return nil, err
		}
		return tx, nil
	},
	FromValuesArray: func(values []interface{}, opts *txbasic.TxOptions) (txbasic.Transaction, error) {
		tx, err := legacy.FromValuesArray(values, opts)
		if err != nil {
			return nil, err
		}
		return tx, nil
	},
}

var accessListClass = &TxClass{
	Type: txbasic.TransactionType_AccessList,
	FromTxData: func(data txbasic.TxData, opts *txbasic.TxOptions) (txbasic.Transaction, error) {
		tx, err := eip2930.NewAccessListTransaction(data, opts)
		if err != nil {
			return nil, err
		}
		return tx, nil
	},
	FromSerializedTx: func(serialized []byte, opts *txbasic.TxOptions) (txbasic.Transaction, error) {
		tx, err := eip2930.FromSerializedTx(serialized, opts)
		if err != nil {
			return nil, err
		}
		return tx, nil
	},
	FromValuesArray: func(values []interface{}, opts *txbasic.TxOptions) (txbasic.Transaction, error) {
		tx, err := eip2930.FromValuesArray(values, opts)
		if err != nil {
			return nil, err
		}
		return tx, nil
	},
}

// EIPs a typed transaction id needs on top of EIP-2718.
var typedTxEIPs = map[uint64]uint{
	uint64(txbasic.TransactionType_AccessList): configuration.EIP_AccessList,
}

func profileOf(opts *txbasic.TxOptions) *configuration.ChainProfile {
	if opts != nil && opts.Profile != nil {
		return opts.Profile
	}
	return configuration.DefChainProfile()
}

// TransactionClassFor resolves a type id. 0 and the range 0x80-0xff are
// legacy, 1 is an access list transaction.
func TransactionClassFor(txType uint64, profile *configuration.ChainProfile) (*TxClass, error) {
	if profile == nil {
		profile = configuration.DefChainProfile()
	}

	if txType != 0 && !profile.IsFeatureActive(configuration.EIP_TypedEnvelope) {
		return nil, tpcmm.ValidationErrorf("cannot create a TypedTransaction: EIP-2718 not enabled")
	}

	switch {
	case txType == 0 || (txType >= 0x80 && txType <= 0xff):
		return legacyClass, nil
	case txType == uint64(txbasic.TransactionType_AccessList):
		return accessListClass, nil
	}

	return nil, tpcmm.ValidationErrorf("TypedTransaction with ID %d unknown", txType)
}

// FromTxData builds a transaction from a field dictionary. Without a type it is legacy.
func FromTxData(data txbasic.TxData, opts *txbasic.TxOptions) (txbasic.Transaction, error) {
	if data.Type == nil {
		return legacyClass.FromTxData(data, opts)
	}

	class, err := TransactionClassFor(*data.Type, profileOf(opts))
	if err != nil {
		return nil, err
	}
	return class.FromTxData(data, opts)
}

// FromSerializedData dispatches on the first byte: 0x00-0x7f is a typed
// envelope, anything else starts a legacy RLP list.
func FromSerializedData(data []byte, opts *txbasic.TxOptions) (txbasic.Transaction, error) {
	if len(data) == 0 {
		return nil, tpcmm.ValidationErrorf("invalid serialized tx input: empty data")
	}

	if data[0] > 0x7f {
		return legacyClass.FromSerializedTx(data, opts)
	}

	profile := profileOf(opts)
	if !profile.IsFeatureActive(configuration.EIP_TypedEnvelope) {
		return nil, tpcmm.ValidationErrorf("TypedTransaction with ID %d unknown or EIP-2718 not enabled", data[0])
	}

	eip, ok := typedTxEIPs[uint64(data[0])]
	if !ok || !profile.IsFeatureActive(eip) {
		return nil, tpcmm.ValidationErrorf("TypedTransaction with ID %d unknown or not activated", data[0])
	}

	class, err := TransactionClassFor(uint64(data[0]), profile)
	if err != nil {
		return nil, err
	}
	return class.FromSerializedTx(data, opts)
}

// FromBlockBodyData accepts a block body entry: the serialized bytes of a
// typed transaction or the decoded value list of a legacy one.
func FromBlockBodyData(data interface{}, opts *txbasic.TxOptions) (txbasic.Transaction, error) {
	switch d := data.(type) {
	case []byte:
		return FromSerializedData(d, opts)
	case []interface{}:
		return legacyClass.FromValuesArray(d, opts)
	}

	return nil, tpcmm.ValidationErrorf("cannot decode transaction: unknown type input %T", data)
}

// FromGeth converts a go-ethereum transaction of a supported type.
func FromGeth(tx *types.Transaction, opts *txbasic.TxOptions) (txbasic.Transaction, error) {
	if tx == nil {
		return nil, tpcmm.ValidationErrorf("nil transaction")
	}

	encoded, err := tx.MarshalBinary()
	if err != nil {
		return nil, tpcmm.ValidationErrorf("encode transaction: %v", err)
	}
	return FromSerializedData(encoded, opts)
}
