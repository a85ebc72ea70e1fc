package rlp

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
)

var ErrNotList = errors.New("rlp: input is not a list")

// DecodeList decodes data into its generic form: nested lists become
// []interface{} and strings become non-nil []byte. The input must hold a
// single top-level list and nothing after it.
func DecodeList(data []byte) ([]interface{}, error) {
	kind, _, _, err := rlp.Split(data)
	if err != nil {
		return nil, err
	}
	if kind != rlp.List {
		return nil, ErrNotList
	}

	var values []interface{}
	if err = rlp.DecodeBytes(data, &values); err != nil {
		return nil, err
	}

	return values, nil
}

// BigToBytes returns the minimal big-endian form of b; zero and nil map to an empty string.
func BigToBytes(b *big.Int) []byte {
	if b == nil || b.Sign() == 0 {
		return []byte{}
	}
	return b.Bytes()
}

func BytesAt(values []interface{}, i int) ([]byte, error) {
	if i < 0 || i >= len(values) {
		return nil, fmt.Errorf("rlp: no value at index %d", i)
	}
	b, ok := values[i].([]byte)
	if !ok {
		return nil, fmt.Errorf("rlp: value at index %d is a list, expected a string", i)
	}

	return b, nil
}

func ListAt(values []interface{}, i int) ([]interface{}, error) {
	if i < 0 || i >= len(values) {
		return nil, fmt.Errorf("rlp: no value at index %d", i)
	}
	l, ok := values[i].([]interface{})
	if !ok {
		return nil, fmt.Errorf("rlp: value at index %d is a string, expected a list", i)
	}

	return l, nil
}
