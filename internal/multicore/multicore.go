// Package multicore implements the N-lockstep executor: one VM Core per
// demonstration example plus one per held-out test question, all advanced
// through the same Code together so a candidate program can be checked
// against every example in a problem in a single pass.
package multicore

import (
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/value"
	"github.com/kaalam/arcsynth/internal/vm"
)

// Example is one demonstration pair or held-out test question of an ARC
// problem.
type Example struct {
	Question value.Grid
	// Answer is only meaningful when IsTest is false; held-out test
	// questions withhold it from the registers a program can read.
	Answer value.Grid
	IsTest bool
}

// Multicore holds one vm.Core per Example, all sharing the same registry
// and advanced together by RunAll.
type Multicore struct {
	registry *primitive.Registry
	examples []Example
	states   []*vm.Core
}

// New creates a Multicore bound to registry and examples, in a cleared
// state (Clear is called once during construction).
func New(registry *primitive.Registry, examples []Example) *Multicore {
	m := &Multicore{registry: registry, examples: examples}
	m.Clear(false)
	return m
}

// Clear resets every state to a fresh, empty-stack Core with its question
// (and, for demos, answer) register populated. peekAnswer, when true,
// populates the answer register even for held-out test states — used only
// by harness tooling that needs to score a search against ground truth
// without that information being visible to the programs under search.
func (m *Multicore) Clear(peekAnswer bool) {
	states := make([]*vm.Core, len(m.examples))
	for i, ex := range m.examples {
		c := vm.NewCore(m.registry)
		c.SetRegister("question", ex.Question)
		if !ex.IsTest || peekAnswer {
			c.SetRegister("answer", ex.Answer)
		}
		states[i] = c
	}
	m.states = states
}

// Len returns the number of states (demos plus test questions).
func (m *Multicore) Len() int { return len(m.states) }

// State returns the i-th Core.
func (m *Multicore) State(i int) *vm.Core { return m.states[i] }

// DemoIndices returns the indices of non-test (demonstration) states.
func (m *Multicore) DemoIndices() []int {
	var idx []int
	for i, ex := range m.examples {
		if !ex.IsTest {
			idx = append(idx, i)
		}
	}
	return idx
}

// TestIndices returns the indices of held-out test states.
func (m *Multicore) TestIndices() []int {
	var idx []int
	for i, ex := range m.examples {
		if ex.IsTest {
			idx = append(idx, i)
		}
	}
	return idx
}

// RunAll runs code against every state. It returns the first fault
// encountered (in state order), or nil once every state has executed code
// without faulting. A fault in one state does not stop the others from
// running — each state is independent — so callers that need all N results
// should inspect each State's AllRight()/Ret() directly; RunAll's return
// value is a convenience for callers (like the miner) that only need to
// know whether the whole batch stayed legal.
func (m *Multicore) RunAll(code vm.Code) error {
	var first error
	for _, state := range m.states {
		if !state.AllRight() {
			continue
		}
		_, err := state.Run(code)
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Snapshot is a frozen copy of every state, produced by CopyState and
// restored by SetState. It is the "two levels deep" copy spec.md
// describes: each Core's stack and registers are cloned, and each Value on
// those stacks/registers is itself cloned.
type Snapshot struct {
	states []*vm.Core
}

// CopyState captures the current states as a Snapshot that can later be
// restored with SetState, letting the caller try several alternative
// continuations from the same point without re-running the prefix code
// each time.
func (m *Multicore) CopyState() Snapshot {
	clones := make([]*vm.Core, len(m.states))
	for i, s := range m.states {
		clones[i] = s.Clone()
	}
	return Snapshot{states: clones}
}

// SetState restores the states captured by a prior CopyState call. The
// snapshot itself is cloned again on restore so the same Snapshot can be
// reused to branch into several independent continuations.
func (m *Multicore) SetState(snap Snapshot) {
	states := make([]*vm.Core, len(snap.states))
	for i, s := range snap.states {
		states[i] = s.Clone()
	}
	m.states = states
}

// AllLegal reports whether every state is still in the "all right" state
// (no fault yet encountered).
func (m *Multicore) AllLegal() bool {
	for _, s := range m.states {
		if !s.AllRight() {
			return false
		}
	}
	return true
}
