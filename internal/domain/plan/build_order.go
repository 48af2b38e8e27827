package plan

import "github.com/andrescamacho/pr0game-go/internal/domain/game"

// buildEntry is either a building level or a checkpoint into the research plan
type buildEntry struct {
	kind       game.BuildingKind
	level      int
	checkpoint bool
	research   int
}

func build(kind game.BuildingKind, level int) buildEntry {
	return buildEntry{kind: kind, level: level}
}

// researchUntil hands over to the research plan entry at the given index
func researchUntil(index int) buildEntry {
	return buildEntry{checkpoint: true, research: index}
}

var buildOrder = []buildEntry{
	build(game.Solarkraftwerk, 1),
	build(game.Metallmine, 1),
	build(game.Metallmine, 2),
	build(game.Solarkraftwerk, 2),
	build(game.Metallmine, 3),
	build(game.Metallmine, 4),
	build(game.Solarkraftwerk, 3),
	build(game.Kristallmine, 1),
	build(game.Solarkraftwerk, 4),
	build(game.Metallmine, 5),
	build(game.Kristallmine, 2),
	build(game.Kristallmine, 3),
	build(game.Solarkraftwerk, 5),
	build(game.Deuteriumsynthetisierer, 1),
	build(game.Kristallmine, 4),
	build(game.Solarkraftwerk, 6),
	build(game.Metallmine, 6),
	build(game.Metallmine, 7),
	build(game.Solarkraftwerk, 7),
	build(game.Kristallmine, 5),
	build(game.Deuteriumsynthetisierer, 2),
	build(game.Solarkraftwerk, 8),
	build(game.Deuteriumsynthetisierer, 3),
	build(game.Deuteriumsynthetisierer, 4),
	build(game.Solarkraftwerk, 9),
	build(game.Deuteriumsynthetisierer, 5),
	build(game.Roboterfabrik, 1),
	build(game.Roboterfabrik, 2),
	build(game.Forschungslabor, 1),
	researchUntil(0),
	researchUntil(1),
	build(game.Raumschiffwerft, 1),
	build(game.Kristallmine, 6),
	build(game.Raumschiffwerft, 2),
	build(game.Solarkraftwerk, 10),
	build(game.Deuteriumsynthetisierer, 6),
	build(game.Metallmine, 8),
	build(game.Solarkraftwerk, 11),
	build(game.Kristallmine, 7),
	build(game.Metallmine, 9),
	build(game.Metallmine, 10),
	build(game.Solarkraftwerk, 12),
	build(game.Kristallmine, 8),
	build(game.Deuteriumsynthetisierer, 7),
	build(game.Solarkraftwerk, 13),
	build(game.Metallmine, 11),
	build(game.Kristallmine, 9),
	build(game.Metallspeicher, 1),
	build(game.Kristallspeicher, 1),
	build(game.Deuteriumtank, 1),
	build(game.Forschungslabor, 2),
	researchUntil(2),
	build(game.Solarkraftwerk, 14),
	build(game.Metallmine, 12),
	build(game.Kristallmine, 10),
	researchUntil(3),
	build(game.Deuteriumsynthetisierer, 8),
	build(game.Metallspeicher, 2),
	build(game.Kristallspeicher, 2),
	build(game.Forschungslabor, 3),
	researchUntil(4),
	researchUntil(5),
	researchUntil(6),
	researchUntil(7),
}

// DefaultBuildOrder returns a fresh copy of the static building plan
func DefaultBuildOrder() Plan {
	research := DefaultResearchOrder()
	steps := make(Plan, len(buildOrder))
	for i, entry := range buildOrder {
		if entry.checkpoint {
			target := research[entry.research]
			steps[i] = Step{
				Order: i,
				Kind:  KindResearchCheckpoint,
				Name:  target.Name,
				Level: target.Level,
			}
			continue
		}
		steps[i] = Step{
			Order: i,
			Kind:  KindBuilding,
			Name:  entry.kind.String(),
			Level: entry.level,
			Cost:  BuildingCost(entry.kind, entry.level),
		}
	}
	return steps
}
