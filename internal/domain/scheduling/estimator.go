package scheduling

import (
	"math"
	"time"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
)

// Random is the subset of *rand.Rand the estimator and throttler draw from
type Random interface {
	Float64() float64
	Intn(n int) int
}

// WaitTimes holds the seconds until each primary resource covers its cost
type WaitTimes struct {
	Met  int
	Kris int
	Deut int
}

// Max returns the bottleneck wait
func (w WaitTimes) Max() int {
	return max(w.Met, w.Kris, w.Deut)
}

// Bottleneck names the resource that dominates the wait
func (w WaitTimes) Bottleneck() string {
	switch w.Max() {
	case 0:
		return ""
	case w.Met:
		return "met"
	case w.Kris:
		return "kris"
	default:
		return "deut"
	}
}

// Estimate is the outcome of a wait calculation
type Estimate struct {
	Wait     time.Duration
	Computed bool
	Times    WaitTimes
}

// WaitEstimator turns a resource shortfall into a sleep duration
type WaitEstimator struct {
	buffer   time.Duration
	interval time.Duration
	variance time.Duration
	random   Random
}

// NewWaitEstimator creates an estimator. buffer is added to computed waits;
// interval and variance shape the fallback when production is unknown.
func NewWaitEstimator(buffer, interval, variance time.Duration, random Random) *WaitEstimator {
	return &WaitEstimator{
		buffer:   buffer,
		interval: interval,
		variance: variance,
		random:   random,
	}
}

// ResourceWaitTimes computes ceil(deficit / hourly * 3600) per resource.
// ok is false when a resource in deficit has no positive production.
func ResourceWaitTimes(cost plan.Cost, available game.Resources, production game.Production) (WaitTimes, bool) {
	met, okMet := secondsUntil(cost.Met, available.Met, production.Met)
	kris, okKris := secondsUntil(cost.Kris, available.Kris, production.Kris)
	deut, okDeut := secondsUntil(cost.Deut, available.Deut, production.Deut)
	return WaitTimes{Met: met, Kris: kris, Deut: deut}, okMet && okKris && okDeut
}

func secondsUntil(cost, available int, hourly float64) (int, bool) {
	if cost <= available {
		return 0, true
	}
	if hourly <= 0 || math.IsNaN(hourly) || math.IsInf(hourly, 0) {
		return 0, false
	}
	return int(math.Ceil(float64(cost-available) * 3600 / hourly)), true
}

// Estimate returns how long to sleep before re-checking the step
func (e *WaitEstimator) Estimate(cost plan.Cost, available game.Resources, production game.Production) Estimate {
	times, ok := ResourceWaitTimes(cost, available, production)
	if !ok {
		return Estimate{Wait: e.Fallback(), Times: times}
	}
	return Estimate{
		Wait:     time.Duration(times.Max())*time.Second + e.buffer,
		Computed: true,
		Times:    times,
	}
}

// Fallback returns the recheck interval with symmetric uniform jitter
func (e *WaitEstimator) Fallback() time.Duration {
	jitter := time.Duration((e.random.Float64()*2 - 1) * float64(e.variance))
	wait := e.interval + jitter
	if wait < 0 {
		return 0
	}
	return wait
}
