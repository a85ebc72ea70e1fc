package common

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

func Has0xPrefix(str string) bool {
	return len(str) >= 2 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X')
}

func IsHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func strip0x(s string) string {
	if Has0xPrefix(s) {
		return s[2:]
	}
	return s
}

// ParseHexBytes decodes an optionally 0x prefixed hex string. Odd-length
// input is read as if it had a leading zero nibble.
func ParseHexBytes(s string) ([]byte, error) {
	s = strip0x(s)
	if len(s)%2 != 0 {
		s = "0" + s
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string %q: %v", s, err)
	}

	return b, nil
}

// ParseHexBig reads an optionally 0x prefixed hex quantity. Leading zeros
// are allowed and an empty string is zero.
func ParseHexBig(s string) (*big.Int, error) {
	digits := strip0x(s)
	if len(digits) == 0 {
		return new(big.Int), nil
	}
	for _, c := range []byte(digits) {
		if !IsHexCharacter(c) {
			return nil, fmt.Errorf("invalid hex quantity %q", s)
		}
	}

	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}

	return v, nil
}
