package transaction

import (
	"math/big"

	tpcmm "github.com/TopiaNetwork/ethtx/common"
	txbasic "github.com/TopiaNetwork/ethtx/transaction/basic"
)

type GasEstimator interface {
	Estimate(tx txbasic.Transaction) (*big.Int, error)
}

func NewGasEstimator() GasEstimator {
	return &gasEstimator{}
}

// gasEstimator reports the intrinsic gas, the least gasLimit tx may carry.
type gasEstimator struct {
}

func (ge *gasEstimator) Estimate(tx txbasic.Transaction) (*big.Int, error) {
	if tx == nil {
		return nil, tpcmm.ValidationErrorf("nil transaction")
	}
	return tx.BaseFee(), nil
}
