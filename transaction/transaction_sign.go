package transaction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	tpcmm "github.com/TopiaNetwork/ethtx/common"
	"github.com/TopiaNetwork/ethtx/configuration"
	tpcrtypes "github.com/TopiaNetwork/ethtx/crypt/types"
	txbasic "github.com/TopiaNetwork/ethtx/transaction/basic"
)

// Signer signs and recovers transactions of one chain.
type Signer struct {
	profile *configuration.ChainProfile
}

func NewSigner(profile *configuration.ChainProfile) Signer {
	if profile == nil {
		profile = configuration.DefChainProfile()
	}
	return Signer{profile: profile.Snapshot()}
}

func (s Signer) ChainID() *big.Int {
	return s.profile.ChainID()
}

func (s Signer) Equal(s2 Signer) bool {
	return s2.profile != nil && s2.ChainID().Cmp(s.ChainID()) == 0
}

func (s Signer) checkChain(tx txbasic.Transaction) error {
	if txChainID := tx.Profile().ChainID(); txChainID.Cmp(s.ChainID()) != 0 {
		return tpcmm.ValidationErrorf("transaction chain id %s, signer chain id %s", txChainID.String(), s.ChainID().String())
	}
	return nil
}

// Hash returns the hash that is signed by the private key. It does not
// identify the transaction.
func (s Signer) Hash(tx txbasic.Transaction) ([]byte, error) {
	if err := s.checkChain(tx); err != nil {
		return nil, err
	}
	return tx.MessageToSign()
}

func (s Signer) SignTx(tx txbasic.Transaction, priKey tpcrtypes.PrivateKey) (txbasic.Transaction, error) {
	if err := s.checkChain(tx); err != nil {
		return nil, err
	}
	return tx.Sign(priKey)
}

func (s Signer) Sender(tx txbasic.Transaction) (common.Address, error) {
	if err := s.checkChain(tx); err != nil {
		return common.Address{}, err
	}
	return tx.SenderAddress()
}
