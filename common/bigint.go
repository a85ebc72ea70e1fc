package common

import (
	"math/big"

	"github.com/holiman/uint256"
)

// MaxInteger is 2^256-1, the largest value any integer transaction field may hold.
var MaxInteger = new(uint256.Int).SetAllOne().ToBig()

// CheckUint256 rejects negative values and values above MaxInteger. A nil
// value is an absent field and passes.
func CheckUint256(name string, v *big.Int) error {
	if v == nil {
		return nil
	}
	if v.Sign() < 0 {
		return ValidationErrorf("%s cannot be negative, given %s", name, v.String())
	}
	if _, overflow := uint256.FromBig(v); overflow {
		return ValidationErrorf("%s cannot exceed MAX_INTEGER, given %s", name, v.String())
	}

	return nil
}

func BigCopy(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// SafeMul and SafeAdd never overflow; they allocate a fresh result.
func SafeMul(a, b *big.Int) *big.Int {
	return new(big.Int).Mul(a, b)
}

func SafeAdd(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}
