package game

// QueueKind selects one of the two construction queues of a planet
type QueueKind int

const (
	BuildingQueue QueueKind = iota
	ResearchQueue
)

func (q QueueKind) String() string {
	if q == ResearchQueue {
		return "research"
	}
	return "buildings"
}

// Page returns the page hosting this queue
func (q QueueKind) Page() Page {
	if q == ResearchQueue {
		return PageResearch
	}
	return PageBuildings
}

// QueueEntry is one item of a live construction queue
type QueueEntry struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
}
