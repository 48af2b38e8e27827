package game

import "fmt"

// Resources is a snapshot of the stock available on the planet.
// Energy is the free energy balance and may be negative.
type Resources struct {
	Met    int `json:"met"`
	Kris   int `json:"kris"`
	Deut   int `json:"deut"`
	Energy int `json:"energy"`
}

func (r Resources) String() string {
	return fmt.Sprintf("Metall: %d\nKristall: %d\nDeuterium: %d\nEnergie: %d", r.Met, r.Kris, r.Deut, r.Energy)
}

// Production is the hourly production of each primary resource
type Production struct {
	Met  float64 `json:"met"`
	Kris float64 `json:"kris"`
	Deut float64 `json:"deut"`
}
