package services

import (
	"iter"
	"math"
	"movesmart-route-service/internal/domain"
	"strings"
)

// UnknownSegmentName labels segments whose step carries no road name.
const UnknownSegmentName = "Unknown Segment"

// SegmentTask is one step of a route in leg-then-step order.
// Segment is nil when the step has no resolvable span; the step's nominal
// duration is then used directly.
type SegmentTask struct {
	LegIndex       int
	StepIndex      int
	Segment        *domain.Segment
	NominalSeconds float64
}

// ExtractSegments yields one SegmentTask per step of route.
//
// A step's segment ends at the next step's maneuver within the same leg. Only
// the final step of the final leg ends at destination; legs are never bridged.
// The returned sequence is finite and may be ranged over more than once.
func ExtractSegments(route domain.CandidateRoute, destination *domain.Coordinates) iter.Seq[SegmentTask] {
	return func(yield func(SegmentTask) bool) {
		lastLeg := len(route.Legs) - 1
		for li, leg := range route.Legs {
			for si, step := range leg.Steps {
				task := SegmentTask{
					LegIndex:       li,
					StepIndex:      si,
					NominalSeconds: nonNegative(step.DurationSeconds),
				}
				if seg, ok := resolveSegment(leg, si, li == lastLeg, destination); ok {
					task.Segment = &seg
				}
				if !yield(task) {
					return
				}
			}
		}
	}
}

// CollectSegments materializes the task queue for one route.
func CollectSegments(route domain.CandidateRoute, destination *domain.Coordinates) []SegmentTask {
	tasks := make([]SegmentTask, 0, stepCount(route))
	for t := range ExtractSegments(route, destination) {
		tasks = append(tasks, t)
	}
	return tasks
}

func resolveSegment(leg domain.Leg, i int, isLastLeg bool, destination *domain.Coordinates) (domain.Segment, bool) {
	step := leg.Steps[i]
	if step.Location == nil || !step.Location.Valid() {
		return domain.Segment{}, false
	}
	if math.IsNaN(step.DistanceMeters) || math.IsInf(step.DistanceMeters, 0) || step.DistanceMeters < 0 {
		return domain.Segment{}, false
	}

	var end domain.Coordinates
	switch {
	case i+1 < len(leg.Steps):
		next := leg.Steps[i+1].Location
		if next == nil || !next.Valid() {
			return domain.Segment{}, false
		}
		end = *next
	case isLastLeg && destination != nil && destination.Valid():
		end = *destination
	default:
		return domain.Segment{}, false
	}

	name := strings.TrimSpace(step.Name)
	if name == "" {
		name = UnknownSegmentName
	}

	return domain.Segment{
		Start:      *step.Location,
		End:        end,
		Name:       name,
		DistanceKm: step.DistanceMeters / 1000,
	}, true
}

func stepCount(route domain.CandidateRoute) int {
	n := 0
	for _, leg := range route.Legs {
		n += len(leg.Steps)
	}
	return n
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
