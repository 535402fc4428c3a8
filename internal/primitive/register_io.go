package primitive

import (
	"fmt"

	"github.com/kaalam/arcsynth/internal/value"
)

// registerIO wires the core-register family: getters for question/answer
// and the five scratch registers, setters for the scratch registers, the
// two stack-reordering swaps, and the search-only answer-verification
// predicate. These mirror Bebop's register opcodes and BopBack's
// tests_verify_answer: getters and setters never pop the stack (ArgCore
// only; a setter copies the top of stack into its register), swaps reorder
// the top two or three values of any kind.
func registerIO(r *Registry) {
	getters := []string{"question", "answer", "a", "b", "c", "d", "e"}
	for _, reg := range getters {
		reg := reg
		r.Register(Descriptor{
			Name:       "get_" + reg,
			ArgTypes:   []ArgKind{ArgCore},
			ReturnsAny: true,
			Body: func(core Core, _ []value.Value) (value.Value, error) {
				v, ok := core.Register(reg)
				if !ok {
					return nil, fmt.Errorf("register %q is not set", reg)
				}
				return v, nil
			},
		})
	}

	setters := []string{"a", "b", "c", "d", "e"}
	for _, reg := range setters {
		reg := reg
		r.Register(Descriptor{
			Name:           "sto_" + reg,
			ArgTypes:       []ArgKind{ArgCore},
			ReturnsNothing: true,
			Body: func(core Core, _ []value.Value) (value.Value, error) {
				top, ok := core.Peek()
				if !ok {
					return nil, fmt.Errorf("sto_%s() empty stack", reg)
				}
				core.SetRegister(reg, top)
				return nil, nil
			},
		})
	}

	// swap_top2 and swap_top3 reorder several stack slots at once, which
	// does not fit the pop-N/push-1 shape every other opcode has. The vm
	// package recognizes these two names (IsStackSwap) and performs the
	// reorder directly instead of calling Body; they are still registered
	// here so compile-time opcode lookup and the miner's segmentation rule
	// see them as ordinary catalogue entries.
	for _, name := range []string{"swap_top2", "swap_top3"} {
		name := name
		arity := 2
		if name == "swap_top3" {
			arity = 3
		}
		argTypes := make([]ArgKind, 0, arity+1)
		argTypes = append(argTypes, ArgCore)
		for i := 0; i < arity; i++ {
			argTypes = append(argTypes, ArgAny)
		}
		r.Register(Descriptor{
			Name:           name,
			ArgTypes:       argTypes,
			ReturnsNothing: true,
			Body: func(_ Core, _ []value.Value) (value.Value, error) {
				return nil, fmt.Errorf("%s must be executed by the vm's stack-swap fast path, not Body", name)
			},
		})
	}

	r.Register(Descriptor{
		Name:       "tests_verify_answer",
		ArgTypes:   []ArgKind{ArgCore, ArgAny},
		RetType:    value.KindNoError,
		ReturnsAny: false,
		Body: func(core Core, args []value.Value) (value.Value, error) {
			answer, ok := core.Register("answer")
			if !ok {
				return value.NewError("no answer register set for this state"), nil
			}
			if value.Equal(args[0], answer) {
				return value.Ok, nil
			}
			return value.NewError("answer mismatch"), nil
		},
	})
}
