package game

import (
	"fmt"
	"time"
)

// StatisticsCategory is a ranking category of the statistics page
type StatisticsCategory string

const (
	StatisticsTotal     StatisticsCategory = "1"
	StatisticsResearch  StatisticsCategory = "3"
	StatisticsBuildings StatisticsCategory = "4"
)

// ParseStatisticsCategory maps a human category name to its page parameter
func ParseStatisticsCategory(name string) (StatisticsCategory, error) {
	switch name {
	case "total", "":
		return StatisticsTotal, nil
	case "research":
		return StatisticsResearch, nil
	case "buildings":
		return StatisticsBuildings, nil
	default:
		return "", fmt.Errorf("unknown statistics category %q (want total, research or buildings)", name)
	}
}

func (c StatisticsCategory) String() string {
	switch c {
	case StatisticsResearch:
		return "research"
	case StatisticsBuildings:
		return "buildings"
	default:
		return "total"
	}
}

// PlayerStatistics is one row of the statistics ranking
type PlayerStatistics struct {
	Name       string
	Rank       int
	Points     int
	Category   StatisticsCategory
	ServerDate string
	CheckedAt  time.Time
}
