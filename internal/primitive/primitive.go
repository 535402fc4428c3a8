// Package primitive implements the typed opcode catalogue of the DSL: every
// primitive is described by a Descriptor (name, argument kinds, return
// kind, and the Go function body that implements it) and looked up by name
// through a concurrent Registry.
//
// A handful of primitives need direct access to VM registers rather than
// popping their arguments off the stack (the "get_question", "sto_a",
// "tests_verify_answer" family). Those declare an ArgCore parameter; the
// executor passes itself in without consuming a stack slot, through the
// narrow Core interface below, so this package never needs to import the vm
// package that implements it.
package primitive

import (
	"errors"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/kaalam/arcsynth/internal/value"
)

// errTwoColors is pic_two_col_reverse's diagnostic when given a grid that
// is not strictly bicolor; the wording is pinned verbatim to the original
// implementation since callers match on it.
var errTwoColors = errors.New("Only two colors expected")

// Core is the narrow view of VM state a register-accessing primitive needs.
// internal/vm's executor satisfies this interface; this package never
// imports internal/vm, so the dependency only runs one way.
type Core interface {
	// Register returns the named register's value and whether it is set.
	Register(name string) (value.Value, bool)
	// SetRegister stores v under name.
	SetRegister(name string, v value.Value)
	// Peek returns the top of the data stack without removing it, used by
	// the sto_* family, which copies the top of stack into a register
	// without consuming it.
	Peek() (value.Value, bool)
}

// ArgKind classifies one declared argument of a primitive: either a Value
// kind that must be popped off the stack and type-checked, or ArgCore,
// meaning "inject the executing Core, do not touch the stack".
type ArgKind int

const (
	ArgInteger ArgKind = iota
	ArgIntPair
	ArgNESW
	ArgVector
	ArgGrid
	ArgMaskedGrid
	ArgGridTuple
	ArgFunction
	ArgCore
	// ArgAny accepts a value of any kind without a type check, used by the
	// stack-swap opcodes and tests_verify_answer, which take whatever is on
	// top of the stack regardless of its kind.
	ArgAny
)

// valueKind reports the value.Kind a stack-popped ArgKind corresponds to.
// It must not be called with ArgCore.
func (a ArgKind) valueKind() value.Kind {
	switch a {
	case ArgInteger:
		return value.KindInteger
	case ArgIntPair:
		return value.KindIntPair
	case ArgNESW:
		return value.KindNESW
	case ArgVector:
		return value.KindVector
	case ArgGrid:
		return value.KindGrid
	case ArgMaskedGrid:
		return value.KindMaskedGrid
	case ArgGridTuple:
		return value.KindGridTuple
	case ArgFunction:
		return value.KindFunction
	default:
		panic("primitive: valueKind called on ArgCore")
	}
}

// Body is the Go implementation of one primitive. args holds exactly the
// stack-popped arguments, in declaration order (ArgCore slots are omitted
// since core carries that information already). A nil return paired with a
// nil error means "pushes nothing", legal only when Descriptor.ReturnsNothing
// is true.
type Body func(core Core, args []value.Value) (value.Value, error)

// Descriptor fully describes one opcode.
type Descriptor struct {
	Name           string
	ArgTypes       []ArgKind
	RetType        value.Kind
	ReturnsNothing bool
	// ReturnsAny marks a primitive whose return kind depends on what it was
	// given (register getters): the executor skips the
	// RetType check for these rather than forcing a register to be
	// monomorphic in what it can hold.
	ReturnsAny bool
	Body       Body
}

// NeedsCore reports whether any declared argument is ArgCore.
func (d Descriptor) NeedsCore() bool {
	for _, a := range d.ArgTypes {
		if a == ArgCore {
			return true
		}
	}
	return false
}

// StackArity is the number of values the VM must pop off the data stack,
// i.e. the declared arguments excluding ArgCore.
func (d Descriptor) StackArity() int {
	n := 0
	for _, a := range d.ArgTypes {
		if a != ArgCore {
			n++
		}
	}
	return n
}

// CheckArg validates that v matches the value.Kind that argKind names
// (ArgAny accepts anything). The VM pops stack arguments in declaration
// order, so the first declared stack argument is checked against the value
// that was on top of the stack.
func (d Descriptor) CheckArg(argKind ArgKind, v value.Value) error {
	if argKind == ArgAny {
		return nil
	}
	if v.Kind() != argKind.valueKind() {
		return fmt.Errorf("%s: expected %s, got %s", d.Name, argKind.valueKind(), v.Kind())
	}
	return nil
}

// Registry is a concurrent, name-indexed catalogue of primitives. It is
// read far more than written (every compile and every VM step looks an
// opcode up by name), so it is backed by xsync.MapOf rather than a
// sync.RWMutex plus map, mirroring how the registry is generalized from a
// single-writer-at-startup, many-readers-at-runtime workflow node registry.
type Registry struct {
	byName *xsync.MapOf[string, Descriptor]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: xsync.NewMapOf[string, Descriptor]()}
}

// Register adds d to the registry. It panics on a duplicate name: the
// catalogue is assembled once at process start from package-level
// registration functions, so a collision is a programming error, not a
// runtime condition to recover from.
func (r *Registry) Register(d Descriptor) {
	if _, loaded := r.byName.LoadOrStore(d.Name, d); loaded {
		panic(fmt.Sprintf("primitive: duplicate opcode %q", d.Name))
	}
}

// Lookup returns the Descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	return r.byName.Load(name)
}

// Names returns every registered opcode name, unordered.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.byName.Size())
	r.byName.Range(func(k string, _ Descriptor) bool {
		names = append(names, k)
		return true
	})
	return names
}

// Len reports how many opcodes are registered.
func (r *Registry) Len() int {
	return r.byName.Size()
}

// IsStackSwap reports whether name is one of the two stack-reordering
// opcodes that the vm package executes through its own fast path rather
// than by calling a Descriptor's Body.
func IsStackSwap(name string) bool {
	return name == "swap_top2" || name == "swap_top3"
}

// NewStandardRegistry builds the registry containing every primitive family
// defined in this package: register I/O, tuple helpers, grid arithmetic,
// morphology, analysis/partitioning, and shape/color constants.
func NewStandardRegistry() *Registry {
	r := NewRegistry()
	registerIO(r)
	registerTuples(r)
	registerArithmetic(r)
	registerMorphology(r)
	registerAnalysis(r)
	registerConstants(r)
	return r
}
