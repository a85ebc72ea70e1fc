package configuration

import (
	"fmt"
)

type ChainPreset struct {
	Name    string
	ChainID uint64
}

var chainPresets = []ChainPreset{
	{Name: "mainnet", ChainID: 1},
	{Name: "ropsten", ChainID: 3},
	{Name: "rinkeby", ChainID: 4},
	{Name: "goerli", ChainID: 5},
	{Name: "kovan", ChainID: 42},
}

const DefaultChain = "mainnet"

func ChainPresetByName(name string) (ChainPreset, bool) {
	for _, p := range chainPresets {
		if p.Name == name {
			return p, true
		}
	}
	return ChainPreset{}, false
}

func ChainPresetByID(chainID uint64) (ChainPreset, bool) {
	for _, p := range chainPresets {
		if p.ChainID == chainID {
			return p, true
		}
	}
	return ChainPreset{}, false
}

func customChainName(chainID uint64) string {
	return fmt.Sprintf("custom-%d", chainID)
}
