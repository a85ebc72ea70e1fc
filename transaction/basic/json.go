package basic

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/TopiaNetwork/ethtx/transaction/accesslist"
)

// JsonTx is the JSON projection of a transaction. Integers are minimal hex
// quantities, byte fields are lowercase 0x prefixed hex.
type JsonTx struct {
	Type       string                 `json:"type,omitempty"`
	ChainID    string                 `json:"chainId,omitempty"`
	Nonce      string                 `json:"nonce"`
	GasPrice   string                 `json:"gasPrice"`
	GasLimit   string                 `json:"gasLimit"`
	To         string                 `json:"to,omitempty"`
	Value      string                 `json:"value"`
	Data       string                 `json:"data"`
	AccessList *accesslist.AccessList `json:"accessList,omitempty"`
	V          string                 `json:"v,omitempty"`
	R          string                 `json:"r,omitempty"`
	S          string                 `json:"s,omitempty"`
}

func encodeOptionalBig(v *big.Int) string {
	if v == nil {
		return ""
	}
	return hexutil.EncodeBig(v)
}

// BaseJSON projects the common fields; concrete types add their own.
func (c *TransactionCommon) BaseJSON() *JsonTx {
	jTx := &JsonTx{
		Nonce:    hexutil.EncodeBig(c.nonce),
		GasPrice: hexutil.EncodeBig(c.gasPrice),
		GasLimit: hexutil.EncodeBig(c.gasLimit),
		Value:    hexutil.EncodeBig(c.value),
		Data:     hexutil.Encode(c.data),
		V:        encodeOptionalBig(c.v),
		R:        encodeOptionalBig(c.r),
		S:        encodeOptionalBig(c.s),
	}
	if c.to != nil {
		jTx.To = hexutil.Encode(c.to.Bytes())
	}

	return jTx
}
