package game

import (
	"fmt"
	"strings"
)

// ResearchKind identifies a technology researched in the research lab
type ResearchKind int

const (
	Computertechnik ResearchKind = iota
	Energietechnik
	Verbrennungstriebwerk
	Impulstriebwerk
	Spionagetechnik
	Astrophysik
)

var researchNames = map[ResearchKind]string{
	Computertechnik:       "Computertechnik",
	Energietechnik:        "Energietechnik",
	Verbrennungstriebwerk: "Verbrennungstriebwerk",
	Impulstriebwerk:       "Impulstriebwerk",
	Spionagetechnik:       "Spionagetechnik",
	Astrophysik:           "Astrophysik",
}

func (k ResearchKind) String() string {
	if name, ok := researchNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ResearchKind(%d)", int(k))
}

// ParseResearchKind resolves an in-game display name (case-insensitive) to a ResearchKind
func ParseResearchKind(name string) (ResearchKind, bool) {
	trimmed := strings.TrimSpace(name)
	for kind, display := range researchNames {
		if strings.EqualFold(display, trimmed) {
			return kind, true
		}
	}
	return 0, false
}
