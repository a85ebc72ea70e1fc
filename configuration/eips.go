package configuration

type eipRule struct {
	minimumHardfork Hardfork
	requiredEIPs    []uint
}

// EIPs that can be switched on explicitly ahead of their hardfork.
var supportedEIPs = map[uint]eipRule{
	2315: {minimumHardfork: Hardfork_Istanbul},
	2537: {minimumHardfork: Hardfork_Chainstart},
	2565: {minimumHardfork: Hardfork_Byzantium},
	2718: {minimumHardfork: Hardfork_Chainstart},
	2929: {minimumHardfork: Hardfork_Chainstart},
	2930: {minimumHardfork: Hardfork_Istanbul, requiredEIPs: []uint{2718, 2929}},
}

const (
	EIP_ReplayProtection uint = 155
	EIP_TxDataGasCost    uint = 2028
	EIP_TypedEnvelope    uint = 2718
	EIP_AccessList       uint = 2930
)
