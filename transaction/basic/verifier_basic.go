package basic

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	tplog "github.com/TopiaNetwork/ethtx/log"
)

// TransactionVerifier returns nil to accept tx, or the reason for rejecting it.
type TransactionVerifier func(log tplog.Logger, tx Transaction) error

var ErrInvalidSignature = errors.New("invalid signature")

func TransactionGasLimitVerifier() TransactionVerifier {
	return func(log tplog.Logger, tx Transaction) error {
		baseFee := tx.BaseFee()
		if gasLimit := tx.GasLimit(); gasLimit.Cmp(baseFee) < 0 {
			return fmt.Errorf("gasLimit is too low. given %s, need at least %s", gasLimit.String(), baseFee.String())
		}

		return nil
	}
}

func TransactionSignatureVerifier() TransactionVerifier {
	return func(log tplog.Logger, tx Transaction) error {
		if tx.IsSigned() && !tx.VerifySignature() {
			return ErrInvalidSignature
		}

		return nil
	}
}

func BasicVerifiers() []TransactionVerifier {
	return []TransactionVerifier{
		TransactionGasLimitVerifier(),
		TransactionSignatureVerifier(),
	}
}

// ApplyTransactionVerifiers runs every verifier and returns all rejections
// combined, or nil if tx was accepted.
func ApplyTransactionVerifiers(log tplog.Logger, tx Transaction, verifiers ...TransactionVerifier) error {
	var result *multierror.Error
	for _, verifier := range verifiers {
		if err := verifier(log, tx); err != nil {
			log.Debugf("transaction rejected: %v", err)
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
