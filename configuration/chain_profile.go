package configuration

import (
	"fmt"
	"math/big"
	"sort"

	mapset "github.com/deckarep/golang-set"

	tpcmm "github.com/TopiaNetwork/ethtx/common"
)

type ChainProfileConfig struct {
	Chain    string `json:"chain,omitempty"`
	ChainID  uint64 `json:"chainId,omitempty"`
	Hardfork string `json:"hardfork,omitempty"`
	EIPs     []uint `json:"eips,omitempty"`
}

func DefChainProfileConfig() *ChainProfileConfig {
	return &ChainProfileConfig{
		Chain:    DefaultChain,
		Hardfork: string(DefaultHardfork),
	}
}

// ChainProfile answers which chain and which protocol rules a transaction is
// judged under. Owners mutate it with SetHardfork and ActivateEIPs; anything
// that must not observe later changes keeps a Snapshot.
type ChainProfile struct {
	name     string
	chainID  *big.Int
	hardfork Hardfork
	eips     mapset.Set
}

func NewChainProfile(cfg *ChainProfileConfig) (*ChainProfile, error) {
	if cfg == nil {
		cfg = DefChainProfileConfig()
	}

	var name string
	var chainID uint64
	switch {
	case cfg.Chain != "":
		preset, ok := ChainPresetByName(cfg.Chain)
		if !ok {
			return nil, tpcmm.ValidationErrorf("chain %s not supported", cfg.Chain)
		}
		if cfg.ChainID != 0 && cfg.ChainID != preset.ChainID {
			return nil, tpcmm.ValidationErrorf("chain %s has id %d, given %d", preset.Name, preset.ChainID, cfg.ChainID)
		}
		name, chainID = preset.Name, preset.ChainID
	case cfg.ChainID != 0:
		if preset, ok := ChainPresetByID(cfg.ChainID); ok {
			name = preset.Name
		} else {
			name = customChainName(cfg.ChainID)
		}
		chainID = cfg.ChainID
	default:
		preset, _ := ChainPresetByName(DefaultChain)
		name, chainID = preset.Name, preset.ChainID
	}

	hardfork := DefaultHardfork
	if cfg.Hardfork != "" {
		hf, err := ParseHardfork(cfg.Hardfork)
		if err != nil {
			return nil, err
		}
		hardfork = hf
	}

	profile := &ChainProfile{
		name:     name,
		chainID:  new(big.Int).SetUint64(chainID),
		hardfork: hardfork,
		eips:     mapset.NewSet(),
	}
	if err := profile.ActivateEIPs(cfg.EIPs...); err != nil {
		return nil, err
	}

	return profile, nil
}

// NewCustomChainProfile builds a profile for a chain without a preset.
func NewCustomChainProfile(name string, chainID *big.Int, hardfork Hardfork) (*ChainProfile, error) {
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, tpcmm.ValidationErrorf("chain id must be positive")
	}
	if !hardfork.IsValid() {
		return nil, tpcmm.ValidationErrorf("hardfork %s not supported", hardfork)
	}

	return &ChainProfile{
		name:     name,
		chainID:  new(big.Int).Set(chainID),
		hardfork: hardfork,
		eips:     mapset.NewSet(),
	}, nil
}

// DefChainProfile is mainnet at istanbul.
func DefChainProfile() *ChainProfile {
	profile, err := NewChainProfile(DefChainProfileConfig())
	if err != nil {
		panic("default chain profile: " + err.Error())
	}
	return profile
}

func (p *ChainProfile) Name() string {
	return p.name
}

func (p *ChainProfile) ChainID() *big.Int {
	return new(big.Int).Set(p.chainID)
}

func (p *ChainProfile) Hardfork() Hardfork {
	return p.hardfork
}

func (p *ChainProfile) SetHardfork(hardfork Hardfork) error {
	if !hardfork.IsValid() {
		return tpcmm.ValidationErrorf("hardfork %s not supported", hardfork)
	}
	p.hardfork = hardfork
	return nil
}

// HardforkAtLeast reports whether the active hardfork is hardfork or a later one.
// Unknown names are never reached.
func (p *ChainProfile) HardforkAtLeast(hardfork Hardfork) bool {
	target := hardfork.index()
	if target < 0 {
		return false
	}
	return p.hardfork.index() >= target
}

func (p *ChainProfile) IsFeatureActive(eip uint) bool {
	if p.eips.Contains(eip) {
		return true
	}

	current := p.hardfork.index()
	for i := 0; i <= current; i++ {
		for _, e := range hardforkEIPs[hardforkOrder[i]] {
			if e == eip {
				return true
			}
		}
	}

	return false
}

// ActivateEIPs switches on EIPs ahead of their hardfork. Either all of them
// are activated or, on error, none.
func (p *ChainProfile) ActivateEIPs(eips ...uint) error {
	requested := mapset.NewSet()
	for _, eip := range eips {
		requested.Add(eip)
	}

	for _, eip := range eips {
		rule, ok := supportedEIPs[eip]
		if !ok {
			return tpcmm.ValidationErrorf("EIP %d not supported", eip)
		}
		if !p.HardforkAtLeast(rule.minimumHardfork) {
			return tpcmm.ValidationErrorf("EIP %d cannot be activated on hardfork %s, minimum hardfork is %s", eip, p.hardfork, rule.minimumHardfork)
		}
		for _, required := range rule.requiredEIPs {
			if !requested.Contains(required) && !p.IsFeatureActive(required) {
				return tpcmm.ValidationErrorf("EIP %d requires EIP %d to be activated", eip, required)
			}
		}
	}

	for _, eip := range eips {
		p.eips.Add(eip)
	}

	return nil
}

// EIPs lists the explicitly activated EIPs in ascending order.
func (p *ChainProfile) EIPs() []uint {
	eips := make([]uint, 0, p.eips.Cardinality())
	for _, e := range p.eips.ToSlice() {
		eips = append(eips, e.(uint))
	}
	sort.Slice(eips, func(i, j int) bool { return eips[i] < eips[j] })

	return eips
}

// Param resolves a protocol parameter under the active rules, 0 if it is not defined.
func (p *ChainProfile) Param(category ParamCategory, name string) uint64 {
	steps, ok := paramTable[category][name]
	if !ok {
		return 0
	}

	var value uint64
	for _, step := range steps {
		if step.eip != 0 {
			if p.IsFeatureActive(step.eip) {
				value = step.value
			}
			continue
		}
		if p.HardforkAtLeast(step.hardfork) {
			value = step.value
		}
	}

	return value
}

func (p *ChainProfile) GasPrice(name string) uint64 {
	return p.Param(ParamCategory_GasPrices, name)
}

// Snapshot returns an independent copy.
func (p *ChainProfile) Snapshot() *ChainProfile {
	return &ChainProfile{
		name:     p.name,
		chainID:  new(big.Int).Set(p.chainID),
		hardfork: p.hardfork,
		eips:     p.eips.Clone(),
	}
}

func (p *ChainProfile) Config() *ChainProfileConfig {
	cfg := &ChainProfileConfig{
		Hardfork: string(p.hardfork),
		EIPs:     p.EIPs(),
	}
	if _, ok := ChainPresetByName(p.name); ok {
		cfg.Chain = p.name
	}
	if p.chainID.IsUint64() {
		cfg.ChainID = p.chainID.Uint64()
	}
	return cfg
}

func (p *ChainProfile) String() string {
	return fmt.Sprintf("%s(%s)@%s", p.name, p.chainID.String(), p.hardfork)
}
