package plan

import "time"

// Plan is an ordered list of steps. Position is priority: the lowest
// unqueued position is always the next step.
type Plan []Step

// Clone returns a deep copy so callers can mutate without touching the source
func (p Plan) Clone() Plan {
	out := make(Plan, len(p))
	for i, step := range p {
		out[i] = step
		if step.QueuedAt != nil {
			at := *step.QueuedAt
			out[i].QueuedAt = &at
		}
	}
	return out
}

// Merge overlays the persisted queue state onto the static plan position by
// position. Entries beyond the persisted length start unqueued; persisted
// entries beyond the static length are dropped.
func Merge(static, persisted Plan) Plan {
	merged := make(Plan, len(static))
	for i, step := range static {
		step.HasBeenQueued = false
		step.QueuedAt = nil
		if i < len(persisted) {
			step.HasBeenQueued = persisted[i].HasBeenQueued
			if persisted[i].QueuedAt != nil {
				at := *persisted[i].QueuedAt
				step.QueuedAt = &at
			}
		}
		merged[i] = step
	}
	return merged
}

// Next returns the index and a copy of the first unqueued step
func (p Plan) Next() (int, Step, error) {
	for i, step := range p {
		if !step.HasBeenQueued {
			return i, step, nil
		}
	}
	return -1, Step{}, NewPlanExhaustedError(len(p))
}

// MarkQueued flags the step at index as queued at the given time
func (p Plan) MarkQueued(index int, at time.Time) error {
	if index < 0 || index >= len(p) {
		return NewInvalidStepIndexError(index, len(p))
	}
	if p[index].HasBeenQueued {
		return NewAlreadyQueuedError(index, p[index])
	}
	p[index].HasBeenQueued = true
	p[index].QueuedAt = &at
	return nil
}

// QueuedCount returns the number of queued steps
func (p Plan) QueuedCount() int {
	count := 0
	for _, step := range p {
		if step.HasBeenQueued {
			count++
		}
	}
	return count
}
