package phase

import "sync"

// FunctionPhase tracks how far a single function got through the pipeline.
//
// Phase progression is strictly sequential:
// NotStarted -> Lowered -> Committed -> PhisPlaced -> Renamed -> Verified
//
// Transitions are validated by Tracker.Advance, which checks the
// prerequisite in PhasePrerequisites.
type FunctionPhase int

const (
	PhaseNotStarted FunctionPhase = iota // Function discovered but not processed
	PhaseLowered                         // CFG built and pruned
	PhaseCommitted                       // Orders, dominators and frontiers computed
	PhasePhisPlaced                      // Phis inserted at iterated frontiers
	PhaseRenamed                         // Every definition and use versioned
	PhaseVerified                        // SSA form checked
)

// PhasePrerequisites maps each phase to its required predecessor phase
var PhasePrerequisites = map[FunctionPhase]FunctionPhase{
	PhaseLowered:    PhaseNotStarted,
	PhaseCommitted:  PhaseLowered,
	PhasePhisPlaced: PhaseCommitted,
	PhaseRenamed:    PhasePhisPlaced,
	PhaseVerified:   PhaseRenamed,
}

func (p FunctionPhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseLowered:
		return "Lowered"
	case PhaseCommitted:
		return "Committed"
	case PhasePhisPlaced:
		return "PhisPlaced"
	case PhaseRenamed:
		return "Renamed"
	case PhaseVerified:
		return "Verified"
	default:
		return "Unknown"
	}
}

// Tracker records the phase of every function of a module. It is safe for concurrent use.
type Tracker struct {
	mu     sync.RWMutex
	phases map[string]FunctionPhase
}

func NewTracker() *Tracker {
	return &Tracker{phases: make(map[string]FunctionPhase)}
}

// Get returns the current phase of fn.
func (t *Tracker) Get(fn string) FunctionPhase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.phases[fn]
}

// Advance moves fn to target if fn is exactly at target's prerequisite.
// Returns false if the transition is invalid.
func (t *Tracker) Advance(fn string, target FunctionPhase) bool {
	prerequisite, exists := PhasePrerequisites[target]
	if !exists {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phases[fn] != prerequisite {
		return false
	}
	t.phases[fn] = target
	return true
}
