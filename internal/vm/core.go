package vm

import (
	domainerrors "github.com/kaalam/arcsynth/internal/domain/errors"
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/value"
)

// Core is one stack-machine state: a data stack, a fixed set of named
// registers (question, answer, a-e), the fault bookkeeping needed to
// implement "halt and catch fire" semantics — the first fault wins, and
// once one has occurred, further blocks in the running program are
// skipped rather than executed — and the ordered history of every grid a
// completed Run has produced, used by internal/eval to score a step
// against what it produced last rather than against the original question.
type Core struct {
	registry *primitive.Registry

	stack     []value.Value
	registers map[string]value.Value

	allRight bool
	errorMsg string
	ret      value.Value

	producedGrids []value.Grid
}

// NewCore creates an empty Core bound to registry. The Core starts in the
// "all right" state with an empty stack and no registers set.
func NewCore(registry *primitive.Registry) *Core {
	return &Core{
		registry:  registry,
		registers: make(map[string]value.Value),
		allRight:  true,
		ret:       value.Ok,
	}
}

// Register implements primitive.Core.
func (c *Core) Register(name string) (value.Value, bool) {
	v, ok := c.registers[name]
	return v, ok
}

// SetRegister implements primitive.Core.
func (c *Core) SetRegister(name string, v value.Value) {
	c.registers[name] = v
}

// Push pushes v onto the data stack.
func (c *Core) Push(v value.Value) { c.stack = append(c.stack, v) }

// Pop removes and returns the top of the data stack.
func (c *Core) Pop() (value.Value, bool) {
	if len(c.stack) == 0 {
		return nil, false
	}
	v := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return v, true
}

// Peek returns the top of the stack without removing it.
func (c *Core) Peek() (value.Value, bool) {
	if len(c.stack) == 0 {
		return nil, false
	}
	return c.stack[len(c.stack)-1], true
}

// Stack returns the live data stack slice. Callers that need a stable
// snapshot should copy it (the multicore executor's two-level copy does
// exactly this).
func (c *Core) Stack() []value.Value { return c.stack }

// AllRight reports whether the Core has not yet faulted.
func (c *Core) AllRight() bool { return c.allRight }

// ErrorMsg returns the first fault message recorded, empty if none.
func (c *Core) ErrorMsg() string { return c.errorMsg }

// Ret returns the most recently produced value (pushed or fault sentinel).
func (c *Core) Ret() value.Value { return c.ret }

// ProducedGrids returns the ordered history of grids this Core has
// completed a Run with on top of its stack, oldest first.
func (c *Core) ProducedGrids() []value.Grid { return c.producedGrids }

// hcf ("halt and catch fire") records the first fault only — nested faults
// after the Core has already stopped do not overwrite the original
// message — and always leaves an Err value on top of the stack as Ret.
func (c *Core) hcf(message string) value.Value {
	if c.allRight {
		c.allRight = false
		c.errorMsg = message
	}
	errVal := value.NewError(message)
	c.Push(errVal)
	c.ret = errVal
	return errVal
}

// Clone returns a deep copy of the Core: the stack and every register
// value are cloned one level deep (each Value's own Clone), the "two
// levels deep" copy the multicore executor performs before it lets a walk
// branch into several candidate continuations.
func (c *Core) Clone() *Core {
	clone := &Core{
		registry:  c.registry,
		registers: make(map[string]value.Value, len(c.registers)),
		allRight:  c.allRight,
		errorMsg:  c.errorMsg,
	}
	clone.stack = make([]value.Value, len(c.stack))
	for i, v := range c.stack {
		clone.stack[i] = v.Clone()
	}
	for k, v := range c.registers {
		clone.registers[k] = v.Clone()
	}
	if c.ret != nil {
		clone.ret = c.ret.Clone()
	}
	if c.producedGrids != nil {
		clone.producedGrids = make([]value.Grid, len(c.producedGrids))
		for i, g := range c.producedGrids {
			clone.producedGrids[i] = g.Clone().(value.Grid)
		}
	}
	return clone
}

// Run executes every block of code in order against the Core's current
// stack and registers, stopping immediately once a fault occurs (including
// one already pending from a previous Run call). It returns the final Ret
// value plus a VMFault error once execution has halted abnormally, or the
// final Ret with a nil error when every block executed cleanly.
func (c *Core) Run(code Code) (value.Value, error) {
	for _, block := range code {
		if !c.allRight {
			break
		}
		c.step(block)
	}
	if !c.allRight {
		return c.ret, domainerrors.NewVMFault("", len(c.stack), c.errorMsg, nil)
	}
	if grid, ok := c.ret.(value.Grid); ok {
		c.producedGrids = append(c.producedGrids, grid.Clone().(value.Grid))
	}
	return c.ret, nil
}

// Steps returns an iterator that yields the Ret value after each
// individually executed block, matching the original lazy per-step
// generator semantics: a caller can inspect intermediate stack state
// between opcodes instead of only seeing the final result.
func (c *Core) Steps(code Code) *StepIterator {
	return &StepIterator{core: c, code: code}
}

// StepIterator walks a Code one block at a time.
type StepIterator struct {
	core *Core
	code Code
	pos  int
}

// Next executes the next block and returns its Ret value and whether
// there are more blocks left to execute. It returns (lastRet, false) once
// the code is exhausted or the Core has already faulted.
func (it *StepIterator) Next() (value.Value, bool) {
	if !it.core.allRight || it.pos >= len(it.code) {
		return it.core.ret, false
	}
	block := it.code[it.pos]
	it.pos++
	it.core.step(block)
	return it.core.ret, it.pos < len(it.code) && it.core.allRight
}

// step executes exactly one block: a literal push, a stack-swap fast path,
// or a primitive call with its declared arguments popped (in declaration
// order, so a two-argument opcode's first-declared argument is whichever
// value was pushed last) and type-checked before the call.
func (c *Core) step(block Block) {
	if block.IsLiteral() {
		c.Push(block.Literal)
		c.ret = block.Literal
		c.checkNonEmptyAfterStep()
		return
	}

	desc, ok := c.registry.Lookup(block.Opcode)
	if !ok {
		c.hcf("Unknown opcode: " + block.Opcode)
		return
	}

	if primitive.IsStackSwap(block.Opcode) {
		c.execStackSwap(desc)
		return
	}

	args := make([]value.Value, 0, desc.StackArity())
	for _, at := range desc.ArgTypes {
		if at == primitive.ArgCore {
			continue
		}
		v, ok := c.Pop()
		if !ok {
			c.hcf("Empty stack while calling " + desc.Name)
			return
		}
		if err := desc.CheckArg(at, v); err != nil {
			c.hcf(err.Error())
			return
		}
		args = append(args, v)
	}

	ret, err := desc.Body(c, args)
	if err != nil {
		c.hcf(err.Error())
		return
	}

	if ret == nil {
		if !desc.ReturnsNothing {
			c.hcf("Invalid Block type returned from " + desc.Name)
			return
		}
		c.ret = value.Ok
		c.checkNonEmptyAfterStep()
		return
	}

	if !desc.ReturnsNothing && !desc.ReturnsAny && ret.Kind() != desc.RetType && ret.Kind() != value.KindError {
		c.hcf("Invalid Block type returned from " + desc.Name)
		return
	}

	c.Push(ret)
	c.ret = ret
	c.checkNonEmptyAfterStep()
}

// checkNonEmptyAfterStep enforces that every executed step leaves at least
// one value on the stack.
func (c *Core) checkNonEmptyAfterStep() {
	if len(c.stack) == 0 {
		c.hcf("Empty stack after execution")
	}
}

// execStackSwap implements swap_top2 (swap the top two stack entries) and
// swap_top3 (rotate the top three), the two opcodes whose shape does not
// fit the pop-N/push-1 model every other primitive uses.
func (c *Core) execStackSwap(desc primitive.Descriptor) {
	arity := 2
	if desc.Name == "swap_top3" {
		arity = 3
	}

	popped := make([]value.Value, arity)
	for i := 0; i < arity; i++ {
		v, ok := c.Pop()
		if !ok {
			c.hcf("Empty stack while calling " + desc.Name)
			return
		}
		popped[i] = v
	}

	// popped[0] was on top. swap_top2 exchanges the top two; swap_top3
	// exchanges the top and the third-from-top, leaving the middle one
	// in place.
	switch arity {
	case 2:
		c.Push(popped[0])
		c.Push(popped[1])
	case 3:
		c.Push(popped[0])
		c.Push(popped[1])
		c.Push(popped[2])
	}

	c.ret = popped[arity-1]
	c.checkNonEmptyAfterStep()
}
