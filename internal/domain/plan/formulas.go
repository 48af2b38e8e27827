package plan

import (
	"math"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
)

func pow(base float64, exp int) float64 {
	return math.Pow(base, float64(exp))
}

func round(v float64) int {
	return int(math.Round(v))
}

func floor(v float64) int {
	return int(math.Floor(v))
}

// mineEnergy is the additional energy a mine consumes when going from level-1 to level
func mineEnergy(factor float64, level int) int {
	curr := round(factor * float64(level) * pow(1.1, level))
	prev := round(factor * float64(level-1) * pow(1.1, level-1))
	return curr - prev
}

// BuildingCost returns the price of raising a building to the given level
func BuildingCost(kind game.BuildingKind, level int) Cost {
	switch kind {
	case game.Metallmine:
		return Cost{
			Met:    round(40 * pow(1.5, level)),
			Kris:   round(10 * pow(1.5, level)),
			Energy: mineEnergy(10, level),
		}
	case game.Kristallmine:
		return Cost{
			Met:    round(30 * pow(1.6, level)),
			Kris:   round(15 * pow(1.6, level)),
			Energy: mineEnergy(10, level),
		}
	case game.Deuteriumsynthetisierer:
		return Cost{
			Met:    round(150 * pow(1.5, level)),
			Kris:   round(50 * pow(1.5, level)),
			Energy: mineEnergy(20, level),
		}
	case game.Solarkraftwerk:
		return Cost{
			Met:              round(50 * pow(1.5, level)),
			Kris:             round(20 * pow(1.5, level)),
			EnergyProduction: mineEnergy(20, level),
		}
	case game.Roboterfabrik:
		return Cost{
			Met:  floor(200 * pow(2, level)),
			Kris: floor(60 * pow(2, level)),
			Deut: floor(100 * pow(2, level)),
		}
	case game.Forschungslabor:
		return Cost{
			Met:  floor(100 * pow(2, level)),
			Kris: floor(200 * pow(2, level)),
			Deut: floor(100 * pow(2, level)),
		}
	case game.Raumschiffwerft:
		return Cost{
			Met:  floor(200 * pow(2, level)),
			Kris: floor(100 * pow(2, level)),
			Deut: floor(50 * pow(2, level)),
		}
	case game.Metallspeicher:
		return Cost{Met: 1000 * (1 << level)}
	case game.Kristallspeicher:
		return Cost{Met: 1000 * (1 << level), Kris: 500 * (1 << level)}
	case game.Deuteriumtank:
		return Cost{Met: 1000 * (1 << level), Kris: 1000 * (1 << level)}
	default:
		return Cost{}
	}
}

// ResearchCost returns the price of researching a technology to the given level
func ResearchCost(kind game.ResearchKind, level int) Cost {
	scale := 1 << level
	switch kind {
	case game.Computertechnik:
		return Cost{Kris: 200 * scale, Deut: 300 * scale}
	case game.Energietechnik:
		return Cost{Kris: 400 * scale, Deut: 200 * scale}
	case game.Verbrennungstriebwerk:
		return Cost{Met: 200 * scale, Deut: 300 * scale}
	case game.Impulstriebwerk:
		return Cost{Met: 1000 * scale, Kris: 2000 * scale, Deut: 300 * scale}
	case game.Spionagetechnik:
		return Cost{Met: 100 * scale, Kris: 500 * scale, Deut: 100 * scale}
	case game.Astrophysik:
		// 100 * (0.5 + n) in integer arithmetic
		return Cost{
			Met:  100*round(40*pow(1.75, level-1)) + 50,
			Kris: 100*round(80*pow(1.75, level-1)) + 50,
			Deut: 100*round(40*pow(1.75, level-1)) + 50,
		}
	default:
		return Cost{}
	}
}

// MinResearchLabLevel returns the research-lab level required for a technology
func MinResearchLabLevel(kind game.ResearchKind) int {
	switch kind {
	case game.Impulstriebwerk:
		return 2
	case game.Spionagetechnik, game.Astrophysik:
		return 3
	default:
		return 1
	}
}
