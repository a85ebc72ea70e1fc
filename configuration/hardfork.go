package configuration

import (
	tpcmm "github.com/TopiaNetwork/ethtx/common"
)

type Hardfork string

const (
	Hardfork_Chainstart       Hardfork = "chainstart"
	Hardfork_Homestead        Hardfork = "homestead"
	Hardfork_Dao              Hardfork = "dao"
	Hardfork_TangerineWhistle Hardfork = "tangerineWhistle"
	Hardfork_SpuriousDragon   Hardfork = "spuriousDragon"
	Hardfork_Byzantium        Hardfork = "byzantium"
	Hardfork_Constantinople   Hardfork = "constantinople"
	Hardfork_Petersburg       Hardfork = "petersburg"
	Hardfork_Istanbul         Hardfork = "istanbul"
	Hardfork_MuirGlacier      Hardfork = "muirGlacier"
	Hardfork_Berlin           Hardfork = "berlin"
)

const DefaultHardfork = Hardfork_Istanbul

var hardforkOrder = []Hardfork{
	Hardfork_Chainstart,
	Hardfork_Homestead,
	Hardfork_Dao,
	Hardfork_TangerineWhistle,
	Hardfork_SpuriousDragon,
	Hardfork_Byzantium,
	Hardfork_Constantinople,
	Hardfork_Petersburg,
	Hardfork_Istanbul,
	Hardfork_MuirGlacier,
	Hardfork_Berlin,
}

// EIPs switched on by reaching a hardfork.
var hardforkEIPs = map[Hardfork][]uint{
	Hardfork_SpuriousDragon: {155},
	Hardfork_Istanbul:       {2028},
	Hardfork_Berlin:         {2565, 2718, 2929, 2930},
}

func (h Hardfork) index() int {
	for i, hf := range hardforkOrder {
		if hf == h {
			return i
		}
	}
	return -1
}

func (h Hardfork) IsValid() bool {
	return h.index() >= 0
}

func ParseHardfork(name string) (Hardfork, error) {
	h := Hardfork(name)
	if !h.IsValid() {
		return "", tpcmm.ValidationErrorf("hardfork %s not supported", name)
	}
	return h, nil
}

func Hardforks() []Hardfork {
	return append([]Hardfork(nil), hardforkOrder...)
}
