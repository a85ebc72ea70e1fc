package basic

import (
	"math/big"

	"github.com/TopiaNetwork/ethtx/codec"
	tpcmm "github.com/TopiaNetwork/ethtx/common"
	"github.com/TopiaNetwork/ethtx/transaction/accesslist"
)

// TxData is the field dictionary transactions are built from. Nil integers
// default to zero, except V, R and S where nil means absent. An empty To
// means contract creation.
type TxData struct {
	Type     *uint64
	ChainID  *big.Int
	Nonce    *big.Int
	GasPrice *big.Int
	GasLimit *big.Int
	To       []byte
	Value    *big.Int
	Data     []byte
	V        *big.Int
	R        *big.Int
	S        *big.Int

	// At most one of the two access list forms may be set. Neither means an empty list.
	AccessList      accesslist.AccessList
	AccessListBytes []interface{}
}

// AccessListInput resolves the access list carried by d.
func (d *TxData) AccessListInput() (accesslist.Bytes, error) {
	if d.AccessList != nil && d.AccessListBytes != nil {
		return nil, tpcmm.ValidationErrorf("access list given both in human-readable and raw form")
	}
	if d.AccessList != nil {
		return accesslist.FromHumanReadable(d.AccessList)
	}
	return accesslist.FromRaw(d.AccessListBytes)
}

func parseOptionalBig(field, s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := tpcmm.ParseHexBig(s)
	if err != nil {
		return nil, tpcmm.ValidationErrorf("%s: %v", field, err)
	}
	return v, nil
}

// UnmarshalJSON reads the hex encoded form produced by ToJSON.
func (d *TxData) UnmarshalJSON(input []byte) error {
	var dec JsonTx
	if err := codec.CreateMarshaler(codec.CodecType_JSON).Unmarshal(input, &dec); err != nil {
		return tpcmm.ValidationErrorf("invalid transaction JSON: %v", err)
	}

	var out TxData
	var err error

	if dec.Type != "" {
		typeID, err := parseOptionalBig("type", dec.Type)
		if err != nil {
			return err
		}
		if !typeID.IsUint64() {
			return tpcmm.ValidationErrorf("type: %s out of range", dec.Type)
		}
		t := typeID.Uint64()
		out.Type = &t
	}

	bigFields := []struct {
		name string
		src  string
		dst  **big.Int
	}{
		{"chainId", dec.ChainID, &out.ChainID},
		{"nonce", dec.Nonce, &out.Nonce},
		{"gasPrice", dec.GasPrice, &out.GasPrice},
		{"gasLimit", dec.GasLimit, &out.GasLimit},
		{"value", dec.Value, &out.Value},
		{"v", dec.V, &out.V},
		{"r", dec.R, &out.R},
		{"s", dec.S, &out.S},
	}
	for _, f := range bigFields {
		if *f.dst, err = parseOptionalBig(f.name, f.src); err != nil {
			return err
		}
	}

	if dec.To != "" {
		if out.To, err = tpcmm.ParseHexBytes(dec.To); err != nil {
			return tpcmm.ValidationErrorf("to: %v", err)
		}
	}
	if out.Data, err = tpcmm.ParseHexBytes(dec.Data); err != nil {
		return tpcmm.ValidationErrorf("data: %v", err)
	}
	if dec.AccessList != nil {
		out.AccessList = *dec.AccessList
	}

	*d = out
	return nil
}
