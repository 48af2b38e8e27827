package plan

import "github.com/andrescamacho/pr0game-go/internal/domain/game"

type researchTarget struct {
	kind  game.ResearchKind
	level int
}

var researchOrder = []researchTarget{
	{game.Computertechnik, 1},
	{game.Energietechnik, 1},
	{game.Impulstriebwerk, 1},
	{game.Impulstriebwerk, 2},
	{game.Spionagetechnik, 1},
	{game.Spionagetechnik, 2},
	{game.Spionagetechnik, 3},
	{game.Spionagetechnik, 4},
	{game.Verbrennungstriebwerk, 1},
	{game.Verbrennungstriebwerk, 2},
	{game.Verbrennungstriebwerk, 3},
	{game.Verbrennungstriebwerk, 4},
	{game.Spionagetechnik, 5},
	{game.Verbrennungstriebwerk, 5},
	{game.Spionagetechnik, 6},
	{game.Impulstriebwerk, 3},
	{game.Energietechnik, 2},
	{game.Verbrennungstriebwerk, 6},
	{game.Energietechnik, 3},
	{game.Astrophysik, 1},
	{game.Astrophysik, 2},
	{game.Astrophysik, 3},
}

// DefaultResearchOrder returns a fresh copy of the static research plan
func DefaultResearchOrder() Plan {
	steps := make(Plan, len(researchOrder))
	for i, target := range researchOrder {
		steps[i] = Step{
			Order:               i,
			Kind:                KindResearch,
			Name:                target.kind.String(),
			Level:               target.level,
			Cost:                ResearchCost(target.kind, target.level),
			MinResearchLabLevel: MinResearchLabLevel(target.kind),
		}
	}
	return steps
}
