package regulations

import "strings"

// UnknownEnergyOrdinal ranks unrecognised BER codes below G.
const UnknownEnergyOrdinal = 20

var energyOrdinals = map[string]int{
	"A1": 1, "A2": 2, "A3": 3,
	"B1": 4, "B2": 5, "B3": 6,
	"C1": 7, "C2": 8, "C3": 9,
	"D1": 10, "D2": 11,
	"E1": 12, "E2": 13,
	"F": 14,
	"G": 15,
}

// EnergyOrdinal ranks a BER code, 1 (A1) being best.
func EnergyOrdinal(code string) int {
	if o, ok := energyOrdinals[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return o
	}
	return UnknownEnergyOrdinal
}

// KnownEnergyRating reports whether code is a recognised BER code.
func KnownEnergyRating(code string) bool {
	return EnergyOrdinal(code) != UnknownEnergyOrdinal
}
