package accesslist

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	tpcmm "github.com/TopiaNetwork/ethtx/common"
)

const (
	AddressLength    = common.AddressLength
	StorageKeyLength = common.HashLength
)

// AccessTuple is the human-readable entry: hex address and hex storage keys.
type AccessTuple struct {
	Address     string   `json:"address"`
	StorageKeys []string `json:"storageKeys"`
}

type AccessList []AccessTuple

// BytesTuple is the binary entry carried on the wire.
type BytesTuple struct {
	Address     []byte
	StorageKeys [][]byte
}

// Bytes is the canonical binary access list.
type Bytes []BytesTuple

func checkTuple(address []byte, keys [][]byte) error {
	if len(address) != AddressLength {
		return tpcmm.ValidationErrorf("invalid EIP-2930 transaction: address length should be %d bytes, given %d", AddressLength, len(address))
	}
	for _, key := range keys {
		if len(key) != StorageKeyLength {
			return tpcmm.ValidationErrorf("invalid EIP-2930 transaction: storage slot length should be %d bytes, given %d", StorageKeyLength, len(key))
		}
	}
	return nil
}

// FromHumanReadable converts and validates a hex access list.
func FromHumanReadable(al AccessList) (Bytes, error) {
	out := make(Bytes, 0, len(al))
	for _, tuple := range al {
		address, err := tpcmm.ParseHexBytes(tuple.Address)
		if err != nil {
			return nil, tpcmm.ValidationErrorf("invalid EIP-2930 transaction: %v", err)
		}

		keys := make([][]byte, 0, len(tuple.StorageKeys))
		for _, k := range tuple.StorageKeys {
			key, err := tpcmm.ParseHexBytes(k)
			if err != nil {
				return nil, tpcmm.ValidationErrorf("invalid EIP-2930 transaction: %v", err)
			}
			keys = append(keys, key)
		}

		if err = checkTuple(address, keys); err != nil {
			return nil, err
		}
		out = append(out, BytesTuple{Address: address, StorageKeys: keys})
	}

	return out, nil
}

// FromRaw validates a decoded RLP access list: a list of [address, [keys...]] pairs.
// A nil or empty input is an empty list.
func FromRaw(raw []interface{}) (Bytes, error) {
	out := make(Bytes, 0, len(raw))
	for i, item := range raw {
		entry, ok := item.([]interface{})
		if !ok {
			return nil, tpcmm.ValidationErrorf("invalid EIP-2930 transaction: access list entry %d is not a list", i)
		}
		if len(entry) != 2 {
			return nil, tpcmm.ValidationErrorf("invalid EIP-2930 transaction: access list entry %d should have 2 items (address and storage keys), given %d", i, len(entry))
		}

		address, ok := entry[0].([]byte)
		if !ok {
			return nil, tpcmm.ValidationErrorf("invalid EIP-2930 transaction: access list entry %d address is not a byte string", i)
		}
		rawKeys, ok := entry[1].([]interface{})
		if !ok {
			return nil, tpcmm.ValidationErrorf("invalid EIP-2930 transaction: access list entry %d storage keys are not a list", i)
		}

		keys := make([][]byte, 0, len(rawKeys))
		for _, rk := range rawKeys {
			key, ok := rk.([]byte)
			if !ok {
				return nil, tpcmm.ValidationErrorf("invalid EIP-2930 transaction: access list entry %d storage key is not a byte string", i)
			}
			keys = append(keys, tpcmm.BytesCopy(key))
		}

		if err := checkTuple(address, keys); err != nil {
			return nil, err
		}
		out = append(out, BytesTuple{Address: tpcmm.BytesCopy(address), StorageKeys: keys})
	}

	return out, nil
}

// Raw is the RLP-ready form, the inverse of FromRaw.
func (b Bytes) Raw() []interface{} {
	raw := make([]interface{}, 0, len(b))
	for _, tuple := range b {
		keys := make([]interface{}, 0, len(tuple.StorageKeys))
		for _, key := range tuple.StorageKeys {
			keys = append(keys, tpcmm.BytesCopy(key))
		}
		raw = append(raw, []interface{}{tpcmm.BytesCopy(tuple.Address), keys})
	}
	return raw
}

func (b Bytes) HumanReadable() AccessList {
	al := make(AccessList, 0, len(b))
	for _, tuple := range b {
		keys := make([]string, 0, len(tuple.StorageKeys))
		for _, key := range tuple.StorageKeys {
			keys = append(keys, hexutil.Encode(key))
		}
		al = append(al, AccessTuple{Address: hexutil.Encode(tuple.Address), StorageKeys: keys})
	}
	return al
}

// PaddedJSON is the JSON projection: addresses padded to 20 bytes and keys to 32.
func (b Bytes) PaddedJSON() AccessList {
	al := make(AccessList, 0, len(b))
	for _, tuple := range b {
		keys := make([]string, 0, len(tuple.StorageKeys))
		for _, key := range tuple.StorageKeys {
			keys = append(keys, hexutil.Encode(tpcmm.LeftPadBytes(key, StorageKeyLength)))
		}
		al = append(al, AccessTuple{
			Address:     hexutil.Encode(tpcmm.LeftPadBytes(tuple.Address, AddressLength)),
			StorageKeys: keys,
		})
	}
	return al
}

func (b Bytes) StorageKeyCount() int {
	count := 0
	for _, tuple := range b {
		count += len(tuple.StorageKeys)
	}
	return count
}

func (b Bytes) Copy() Bytes {
	out := make(Bytes, 0, len(b))
	for _, tuple := range b {
		keys := make([][]byte, 0, len(tuple.StorageKeys))
		for _, key := range tuple.StorageKeys {
			keys = append(keys, tpcmm.BytesCopy(key))
		}
		out = append(out, BytesTuple{Address: tpcmm.BytesCopy(tuple.Address), StorageKeys: keys})
	}
	return out
}

func (b Bytes) ToGeth() types.AccessList {
	al := make(types.AccessList, 0, len(b))
	for _, tuple := range b {
		keys := make([]common.Hash, 0, len(tuple.StorageKeys))
		for _, key := range tuple.StorageKeys {
			keys = append(keys, common.BytesToHash(key))
		}
		al = append(al, types.AccessTuple{Address: common.BytesToAddress(tuple.Address), StorageKeys: keys})
	}
	return al
}

func FromGeth(al types.AccessList) Bytes {
	out := make(Bytes, 0, len(al))
	for _, tuple := range al {
		keys := make([][]byte, 0, len(tuple.StorageKeys))
		for _, key := range tuple.StorageKeys {
			keys = append(keys, key.Bytes())
		}
		out = append(out, BytesTuple{Address: tuple.Address.Bytes(), StorageKeys: keys})
	}
	return out
}
