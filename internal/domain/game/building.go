package game

import (
	"fmt"
	"strings"
)

// BuildingKind identifies a planet building the scheduler knows how to construct
type BuildingKind int

const (
	Metallmine BuildingKind = iota
	Kristallmine
	Deuteriumsynthetisierer
	Solarkraftwerk
	Roboterfabrik
	Raumschiffwerft
	Forschungslabor
	Metallspeicher
	Kristallspeicher
	Deuteriumtank
)

var buildingNames = map[BuildingKind]string{
	Metallmine:              "Metallmine",
	Kristallmine:            "Kristallmine",
	Deuteriumsynthetisierer: "Deuteriumsynthetisierer",
	Solarkraftwerk:          "Solarkraftwerk",
	Roboterfabrik:           "Roboterfabrik",
	Raumschiffwerft:         "Raumschiffwerft",
	Forschungslabor:         "Forschungslabor",
	Metallspeicher:          "Metallspeicher",
	Kristallspeicher:        "Kristallspeicher",
	Deuteriumtank:           "Deuteriumtank",
}

// AllBuildingKinds lists every building kind in display order
func AllBuildingKinds() []BuildingKind {
	return []BuildingKind{
		Metallmine, Kristallmine, Deuteriumsynthetisierer, Solarkraftwerk, Roboterfabrik,
		Raumschiffwerft, Forschungslabor, Metallspeicher, Kristallspeicher, Deuteriumtank,
	}
}

// String returns the in-game display name
func (k BuildingKind) String() string {
	if name, ok := buildingNames[k]; ok {
		return name
	}
	return fmt.Sprintf("BuildingKind(%d)", int(k))
}

// ParseBuildingKind resolves an in-game display name (case-insensitive) to a BuildingKind
func ParseBuildingKind(name string) (BuildingKind, bool) {
	trimmed := strings.TrimSpace(name)
	for kind, display := range buildingNames {
		if strings.EqualFold(display, trimmed) {
			return kind, true
		}
	}
	return 0, false
}

// BuildingLevels holds the observed level of every known building on the planet.
// A level of zero means the building has not been constructed yet.
type BuildingLevels struct {
	Metallmine              int `json:"metallmine"`
	Kristallmine            int `json:"kristallmine"`
	Deuteriumsynthetisierer int `json:"deuteriumsynthetisierer"`
	Solarkraftwerk          int `json:"solarkraftwerk"`
	Roboterfabrik           int `json:"roboterfabrik"`
	Raumschiffwerft         int `json:"raumschiffwerft"`
	Forschungslabor         int `json:"forschungslabor"`
	Metallspeicher          int `json:"metallspeicher"`
	Kristallspeicher        int `json:"kristallspeicher"`
	Deuteriumtank           int `json:"deuteriumtank"`
}

// Get returns the level of a building
func (b BuildingLevels) Get(kind BuildingKind) int {
	switch kind {
	case Metallmine:
		return b.Metallmine
	case Kristallmine:
		return b.Kristallmine
	case Deuteriumsynthetisierer:
		return b.Deuteriumsynthetisierer
	case Solarkraftwerk:
		return b.Solarkraftwerk
	case Roboterfabrik:
		return b.Roboterfabrik
	case Raumschiffwerft:
		return b.Raumschiffwerft
	case Forschungslabor:
		return b.Forschungslabor
	case Metallspeicher:
		return b.Metallspeicher
	case Kristallspeicher:
		return b.Kristallspeicher
	case Deuteriumtank:
		return b.Deuteriumtank
	default:
		return 0
	}
}

// Set sets the level of a building
func (b *BuildingLevels) Set(kind BuildingKind, level int) {
	switch kind {
	case Metallmine:
		b.Metallmine = level
	case Kristallmine:
		b.Kristallmine = level
	case Deuteriumsynthetisierer:
		b.Deuteriumsynthetisierer = level
	case Solarkraftwerk:
		b.Solarkraftwerk = level
	case Roboterfabrik:
		b.Roboterfabrik = level
	case Raumschiffwerft:
		b.Raumschiffwerft = level
	case Forschungslabor:
		b.Forschungslabor = level
	case Metallspeicher:
		b.Metallspeicher = level
	case Kristallspeicher:
		b.Kristallspeicher = level
	case Deuteriumtank:
		b.Deuteriumtank = level
	}
}

// String renders the levels one building per line, used for status notifications
func (b BuildingLevels) String() string {
	var sb strings.Builder
	for _, kind := range AllBuildingKinds() {
		fmt.Fprintf(&sb, "%-24s %d\n", kind.String()+":", b.Get(kind))
	}
	return strings.TrimRight(sb.String(), "\n")
}
