package transaction

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	tplog "github.com/TopiaNetwork/ethtx/log"
	txbasic "github.com/TopiaNetwork/ethtx/transaction/basic"
)

type ValidationResult byte

const (
	ValidationResult_Unknown ValidationResult = iota
	ValidationResult_Accept
	ValidationResult_Reject
)

func (vr ValidationResult) String() string {
	switch vr {
	case ValidationResult_Accept:
		return "accept"
	case ValidationResult_Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// TransactionValidator judges tx against facts the transaction cannot know
// by itself, such as the sender's balance or next nonce.
type TransactionValidator func(ctx context.Context, log tplog.Logger, tx txbasic.Transaction) ValidationResult

func TransactionValidatorWithGas() TransactionValidator {
	return func(ctx context.Context, log tplog.Logger, tx txbasic.Transaction) ValidationResult {
		baseFee := tx.BaseFee()
		if tx.GasLimit().Cmp(baseFee) < 0 {
			log.Infof("gasLimit %s below intrinsic gas %s", tx.GasLimit().String(), baseFee.String())
			return ValidationResult_Reject
		}
		return ValidationResult_Accept
	}
}

// TransactionValidatorWithBalance rejects tx if its upfront cost exceeds balance.
func TransactionValidatorWithBalance(balance *big.Int) TransactionValidator {
	return func(ctx context.Context, log tplog.Logger, tx txbasic.Transaction) ValidationResult {
		upfrontCost := tx.UpfrontCost()
		if balance == nil || upfrontCost.Cmp(balance) > 0 {
			log.Infof("insufficient balance: upfront cost %s", upfrontCost.String())
			return ValidationResult_Reject
		}
		return ValidationResult_Accept
	}
}

func TransactionValidatorWithAddress(sender common.Address) TransactionValidator {
	return func(ctx context.Context, log tplog.Logger, tx txbasic.Transaction) ValidationResult {
		addr, err := tx.SenderAddress()
		if err != nil {
			log.Infof("can't get sender address: %v", err)
			return ValidationResult_Reject
		}
		if addr != sender {
			log.Infof("sender %s, expected %s", addr.Hex(), sender.Hex())
			return ValidationResult_Reject
		}
		return ValidationResult_Accept
	}
}

func TransactionValidatorWithNonce(nonce *big.Int) TransactionValidator {
	return func(ctx context.Context, log tplog.Logger, tx txbasic.Transaction) ValidationResult {
		if nonce == nil || tx.Nonce().Cmp(nonce) != 0 {
			log.Infof("nonce %s does not match the expected one", tx.Nonce().String())
			return ValidationResult_Reject
		}
		return ValidationResult_Accept
	}
}

func TransactionValidatorWithSignature() TransactionValidator {
	return func(ctx context.Context, log tplog.Logger, tx txbasic.Transaction) ValidationResult {
		if !tx.IsSigned() || !tx.VerifySignature() {
			log.Info("missing or invalid signature")
			return ValidationResult_Reject
		}
		return ValidationResult_Accept
	}
}

// ApplyTransactionValidator stops at the first rejection. A cancelled ctx rejects.
func ApplyTransactionValidator(ctx context.Context, log tplog.Logger, tx txbasic.Transaction, validators ...TransactionValidator) ValidationResult {
	if tx == nil {
		return ValidationResult_Reject
	}

	for _, validator := range validators {
		if err := ctx.Err(); err != nil {
			log.Infof("validation aborted: %v", err)
			return ValidationResult_Reject
		}
		if validator(ctx, log, tx) == ValidationResult_Reject {
			return ValidationResult_Reject
		}
	}

	return ValidationResult_Accept
}
