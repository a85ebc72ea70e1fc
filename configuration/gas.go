package configuration

import (
	"github.com/ethereum/go-ethereum/params"
)

type ParamCategory string

const ParamCategory_GasPrices ParamCategory = "gasPrices"

const (
	Param_Tx                       = "tx"
	Param_TxCreation               = "txCreation"
	Param_TxDataZero               = "txDataZero"
	Param_TxDataNonZero            = "txDataNonZero"
	Param_AccessListAddressCost    = "accessListAddressCost"
	Param_AccessListStorageKeyCost = "accessListStorageKeyCost"
)

// paramStep sets value once its hardfork is reached or, when eip is
// non-zero, once that EIP is active. Later steps win.
type paramStep struct {
	hardfork Hardfork
	eip      uint
	value    uint64
}

var paramTable = map[ParamCategory]map[string][]paramStep{
	ParamCategory_GasPrices: {
		Param_Tx: {
			{hardfork: Hardfork_Chainstart, value: params.TxGas},
		},
		Param_TxCreation: {
			{hardfork: Hardfork_Homestead, value: params.TxGasContractCreation - params.TxGas},
		},
		Param_TxDataZero: {
			{hardfork: Hardfork_Chainstart, value: params.TxDataZeroGas},
		},
		Param_TxDataNonZero: {
			{hardfork: Hardfork_Chainstart, value: params.TxDataNonZeroGasFrontier},
			{eip: EIP_TxDataGasCost, value: params.TxDataNonZeroGasEIP2028},
		},
		Param_AccessListAddressCost: {
			{eip: EIP_AccessList, value: params.TxAccessListAddressGas},
		},
		Param_AccessListStorageKeyCost: {
			{eip: EIP_AccessList, value: params.TxAccessListStorageKeyGas},
		},
	},
}
