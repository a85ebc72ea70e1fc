package configuration

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tpcmm "github.com/TopiaNetwork/ethtx/common"
)

func TestDefChainProfile(t *testing.T) {
	p := DefChainProfile()

	assert.Equal(t, "mainnet", p.Name())
	assert.Equal(t, int64(1), p.ChainID().Int64())
	assert.Equal(t, Hardfork_Istanbul, p.Hardfork())
	assert.True(t, p.IsFeatureActive(EIP_ReplayProtection))
	assert.True(t, p.IsFeatureActive(EIP_TxDataGasCost))
	assert.False(t, p.IsFeatureActive(EIP_TypedEnvelope))
	assert.False(t, p.IsFeatureActive(EIP_AccessList))
	assert.Equal(t, "mainnet(1)@istanbul", p.String())
}

func TestHardforkAtLeast(t *testing.T) {
	p, err := NewChainProfile(&ChainProfileConfig{Chain: "goerli", Hardfork: "spuriousDragon"})
	require.NoError(t, err)

	assert.True(t, p.HardforkAtLeast(Hardfork_Chainstart))
	assert.True(t, p.HardforkAtLeast(Hardfork_Homestead))
	assert.True(t, p.HardforkAtLeast(Hardfork_SpuriousDragon))
	assert.False(t, p.HardforkAtLeast(Hardfork_Byzantium))
	assert.False(t, p.HardforkAtLeast(Hardfork("london")))
}

func TestBerlinActivatesTypedTransactions(t *testing.T) {
	p, err := NewChainProfile(&ChainProfileConfig{Hardfork: "berlin"})
	require.NoError(t, err)

	for _, eip := range []uint{2565, 2718, 2929, 2930} {
		assert.True(t, p.IsFeatureActive(eip), "EIP %d", eip)
	}
	assert.Len(t, p.EIPs(), 0)
}

func TestGasParams(t *testing.T) {
	frontier, err := NewChainProfile(&ChainProfileConfig{Hardfork: "chainstart"})
	require.NoError(t, err)
	assert.Equal(t, uint64(21000), frontier.GasPrice(Param_Tx))
	assert.Equal(t, uint64(0), frontier.GasPrice(Param_TxCreation))
	assert.Equal(t, uint64(4), frontier.GasPrice(Param_TxDataZero))
	assert.Equal(t, uint64(68), frontier.GasPrice(Param_TxDataNonZero))
	assert.Equal(t, uint64(0), frontier.GasPrice(Param_AccessListAddressCost))

	istanbul := DefChainProfile()
	assert.Equal(t, uint64(32000), istanbul.GasPrice(Param_TxCreation))
	assert.Equal(t, uint64(16), istanbul.GasPrice(Param_TxDataNonZero))

	berlin, err := NewChainProfile(&ChainProfileConfig{Hardfork: "berlin"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2400), berlin.GasPrice(Param_AccessListAddressCost))
	assert.Equal(t, uint64(1900), berlin.GasPrice(Param_AccessListStorageKeyCost))

	assert.Equal(t, uint64(0), berlin.Param(ParamCategory_GasPrices, "unknown"))
	assert.Equal(t, uint64(0), berlin.Param(ParamCategory("vm"), Param_Tx))
}

func TestActivateEIPs(t *testing.T) {
	p := DefChainProfile()

	err := p.ActivateEIPs(2930)
	assert.ErrorIs(t, err, tpcmm.ErrValidation)
	assert.False(t, p.IsFeatureActive(2930))

	err = p.ActivateEIPs(1559)
	assert.ErrorIs(t, err, tpcmm.ErrValidation)

	require.NoError(t, p.ActivateEIPs(2718, 2929, 2930))
	assert.True(t, p.IsFeatureActive(2930))
	assert.Equal(t, []uint{2718, 2929, 2930}, p.EIPs())
	assert.Equal(t, uint64(2400), p.GasPrice(Param_AccessListAddressCost))

	early, err := NewChainProfile(&ChainProfileConfig{Hardfork: "homestead"})
	require.NoError(t, err)
	err = early.ActivateEIPs(2718, 2929, 2930)
	assert.ErrorIs(t, err, tpcmm.ErrValidation)
	assert.Len(t, early.EIPs(), 0)
}

func TestNewChainProfileConfigs(t *testing.T) {
	p, err := NewChainProfile(&ChainProfileConfig{ChainID: 3})
	require.NoError(t, err)
	assert.Equal(t, "ropsten", p.Name())

	p, err = NewChainProfile(&ChainProfileConfig{ChainID: 1337, Hardfork: "berlin"})
	require.NoError(t, err)
	assert.Equal(t, "custom-1337", p.Name())
	assert.Equal(t, int64(1337), p.ChainID().Int64())

	p, err = NewChainProfile(nil)
	require.NoError(t, err)
	assert.Equal(t, "mainnet", p.Name())

	_, err = NewChainProfile(&ChainProfileConfig{Chain: "morden"})
	assert.ErrorIs(t, err, tpcmm.ErrValidation)

	_, err = NewChainProfile(&ChainProfileConfig{Chain: "mainnet", ChainID: 5})
	assert.ErrorIs(t, err, tpcmm.ErrValidation)

	_, err = NewChainProfile(&ChainProfileConfig{Hardfork: "london"})
	assert.ErrorIs(t, err, tpcmm.ErrValidation)

	_, err = NewChainProfile(&ChainProfileConfig{Hardfork: "istanbul", EIPs: []uint{2930}})
	assert.ErrorIs(t, err, tpcmm.ErrValidation)

	p, err = NewChainProfile(&ChainProfileConfig{Hardfork: "istanbul", EIPs: []uint{2930, 2929, 2718}})
	require.NoError(t, err)
	assert.True(t, p.IsFeatureActive(EIP_AccessList))
}

func TestCustomChainProfile(t *testing.T) {
	p, err := NewCustomChainProfile("devnet", big.NewInt(99), Hardfork_Berlin)
	require.NoError(t, err)
	assert.Equal(t, "devnet", p.Name())
	assert.True(t, p.IsFeatureActive(EIP_AccessList))

	_, err = NewCustomChainProfile("devnet", big.NewInt(0), Hardfork_Berlin)
	assert.Error(t, err)
	_, err = NewCustomChainProfile("devnet", big.NewInt(99), Hardfork("unknown"))
	assert.Error(t, err)
}

func TestSnapshotIsIndependent(t *testing.T) {
	p := DefChainProfile()
	snap := p.Snapshot()

	require.NoError(t, p.SetHardfork(Hardfork_Berlin))
	require.NoError(t, p.ActivateEIPs(2315))
	p.ChainID().SetInt64(7)

	assert.Equal(t, Hardfork_Istanbul, snap.Hardfork())
	assert.False(t, snap.IsFeatureActive(2315))
	assert.False(t, snap.IsFeatureActive(EIP_AccessList))
	assert.Equal(t, int64(1), snap.ChainID().Int64())
	assert.Equal(t, int64(1), p.ChainID().Int64())

	err := p.SetHardfork(Hardfork("london"))
	assert.ErrorIs(t, err, tpcmm.ErrValidation)
	assert.Equal(t, Hardfork_Berlin, p.Hardfork())
}

func TestConfigurationSaveLoad(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "ethtx.json")

	cfg := DefConfiguration()
	cfg.Chain = &ChainProfileConfig{Chain: "goerli", Hardfork: "berlin"}
	cfg.Log.Level = "debug"
	require.NoError(t, cfg.Save(fileName))

	loaded := DefConfiguration()
	require.NoError(t, loaded.Load(fileName))
	assert.Equal(t, cfg, loaded)

	p, err := LoadChainProfile(fileName)
	require.NoError(t, err)
	assert.Equal(t, "goerli(5)@berlin", p.String())
}

func TestConfigurationLoadPartial(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "chain.json")
	require.NoError(t, os.WriteFile(fileName, []byte(`{"chain":{"chainId":1337,"hardfork":"berlin"}}`), 0644))

	cfg := DefConfiguration()
	require.NoError(t, cfg.Load(fileName))
	assert.Equal(t, DefLogConfiguration(), cfg.Log)

	p, err := cfg.ChainProfile()
	require.NoError(t, err)
	assert.Equal(t, int64(1337), p.ChainID().Int64())

	_, err = LoadChainProfile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestProfileConfigRoundTrip(t *testing.T) {
	p, err := NewChainProfile(&ChainProfileConfig{Chain: "rinkeby", Hardfork: "istanbul", EIPs: []uint{2718, 2929}})
	require.NoError(t, err)

	again, err := NewChainProfile(p.Config())
	require.NoError(t, err)
	assert.Equal(t, p.String(), again.String())
	assert.Equal(t, p.EIPs(), again.EIPs())
}
