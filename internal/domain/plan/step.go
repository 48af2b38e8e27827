package plan

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
)

// Kind discriminates the variants of a plan step
type Kind int

const (
	// KindBuilding constructs the next level of a planet building
	KindBuilding Kind = iota
	// KindResearch researches the next level of a technology
	KindResearch
	// KindResearchCheckpoint sits in the building plan and hands control to the
	// research plan until one research item has been queued
	KindResearchCheckpoint
)

func (k Kind) String() string {
	switch k {
	case KindResearch:
		return "research"
	case KindResearchCheckpoint:
		return "research-checkpoint"
	default:
		return "building"
	}
}

// Cost is the price of one step. Energy is only consumed by buildings;
// EnergyProduction is informational and only set for power plants.
type Cost struct {
	Met              int `json:"met"`
	Kris             int `json:"kris"`
	Deut             int `json:"deut"`
	Energy           int `json:"energy,omitempty"`
	EnergyProduction int `json:"energyProduction,omitempty"`
}

// Step is one entry of a build or research plan
type Step struct {
	Order               int
	Kind                Kind
	Name                string
	Level               int
	Cost                Cost
	MinResearchLabLevel int
	HasBeenQueued       bool
	QueuedAt            *time.Time
}

// IsBuilding reports whether the step constructs a building
func (s Step) IsBuilding() bool { return s.Kind == KindBuilding }

// IsResearchCheckpoint reports whether the step triggers the research detour
func (s Step) IsResearchCheckpoint() bool { return s.Kind == KindResearchCheckpoint }

// Building resolves the building kind of a building step
func (s Step) Building() (game.BuildingKind, error) {
	kind, ok := game.ParseBuildingKind(s.Name)
	if !ok {
		return 0, fmt.Errorf("step %d: unknown building %q", s.Order, s.Name)
	}
	return kind, nil
}

// Label renders "<name> <level>" as shown in the live queue
func (s Step) Label() string {
	return fmt.Sprintf("%s %d", s.Name, s.Level)
}

// stepJSON is the persisted form. The checkpoint variant is stored as a
// research-typed entry with researchOverride set, which is how existing
// progress files encode it.
type stepJSON struct {
	Order               int        `json:"order"`
	Name                string     `json:"name"`
	Level               int        `json:"level"`
	Cost                Cost       `json:"cost"`
	HasBeenQueued       bool       `json:"hasBeenQueued"`
	QueuedAt            *time.Time `json:"queuedAt"`
	ConstructionType    string     `json:"constructionType"`
	ResearchOverride    *bool      `json:"researchOverride,omitempty"`
	MinResearchLabLevel *int       `json:"minResearchLabLevel,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (s Step) MarshalJSON() ([]byte, error) {
	out := stepJSON{
		Order:         s.Order,
		Name:          s.Name,
		Level:         s.Level,
		Cost:          s.Cost,
		HasBeenQueued: s.HasBeenQueued,
		QueuedAt:      s.QueuedAt,
	}
	switch s.Kind {
	case KindBuilding:
		override := false
		out.ConstructionType = "building"
		out.ResearchOverride = &override
	case KindResearchCheckpoint:
		override := true
		out.ConstructionType = "research"
		out.ResearchOverride = &override
	case KindResearch:
		lab := s.MinResearchLabLevel
		out.ConstructionType = "research"
		out.MinResearchLabLevel = &lab
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Step) UnmarshalJSON(data []byte) error {
	var in stepJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*s = Step{
		Order:         in.Order,
		Name:          in.Name,
		Level:         in.Level,
		Cost:          in.Cost,
		HasBeenQueued: in.HasBeenQueued,
		QueuedAt:      in.QueuedAt,
	}
	switch {
	case in.ResearchOverride != nil && *in.ResearchOverride:
		s.Kind = KindResearchCheckpoint
	case in.ConstructionType == "research":
		s.Kind = KindResearch
		if in.MinResearchLabLevel != nil {
			s.MinResearchLabLevel = *in.MinResearchLabLevel
		}
	default:
		s.Kind = KindBuilding
	}
	return nil
}
