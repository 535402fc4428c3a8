// Package errors defines the error-kind taxonomy used across the synthesis
// engine: compilation, VM execution, evaluation, search and harness errors
// all wrap an underlying cause and carry the identifiers needed to trace a
// failure back to a problem, opcode or stack position.
package errors

import (
	"fmt"
)

// CompileError represents a failure to compile source text into a program.
type CompileError struct {
	// Source is the offending statement or source fragment.
	Source string
	// Message is the diagnostic.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("compile error: %s: %s", e.Message, e.Source)
	}
	return fmt.Sprintf("compile error: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// VMFault represents a fault raised by the stack executor while running a
// program. It is the boundary form of a value.Error: primitives and the VM
// loop represent faults as values first, and only the executor surfaces one
// as a VMFault once execution has been halted.
type VMFault struct {
	// Opcode is the name of the primitive being executed when the fault
	// occurred, empty if the fault predates any executed opcode.
	Opcode string
	// StackDepth is the depth of the stack at the time of the fault.
	StackDepth int
	// Message is the fault message (mirrors the original value.Error payload).
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *VMFault) Error() string {
	if e.Opcode != "" {
		return fmt.Sprintf("vm fault at %s (stack depth %d): %s", e.Opcode, e.StackDepth, e.Message)
	}
	return fmt.Sprintf("vm fault: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *VMFault) Unwrap() error {
	return e.Cause
}

// EvaluationError represents a failure to compute the 18-component
// evaluation vector for a program, e.g. because the multicore state holds
// no picture on top of the per-question stack.
type EvaluationError struct {
	ProblemName string
	Message     string
	Cause       error
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	if e.ProblemName != "" {
		return fmt.Sprintf("evaluation error for %s: %s", e.ProblemName, e.Message)
	}
	return fmt.Sprintf("evaluation error: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *EvaluationError) Unwrap() error {
	return e.Cause
}

// SearchError reports that an MCTS search could not continue or finish: a
// tree path or a surviving top-N program failed to replay. RunSearch
// returns it and stops; a leaf with no legal expansion is counted as a
// broken walk without any error being raised.
type SearchError struct {
	ProblemName string
	WalkNumber  int
	Message     string
	Cause       error
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	return fmt.Sprintf("search error for %s (walk %d): %s", e.ProblemName, e.WalkNumber, e.Message)
}

// Unwrap returns the underlying cause.
func (e *SearchError) Unwrap() error {
	return e.Cause
}

// HarnessError represents a failure in the test harness or training-data
// builder, e.g. a malformed code-base file or a problem lookup miss.
type HarnessError struct {
	Component string
	Message   string
	Cause     error
}

// Error implements the error interface.
func (e *HarnessError) Error() string {
	return fmt.Sprintf("harness error in %s: %s", e.Component, e.Message)
}

// Unwrap returns the underlying cause.
func (e *HarnessError) Unwrap() error {
	return e.Cause
}

// NewCompileError creates a new CompileError.
func NewCompileError(source, message string, cause error) *CompileError {
	return &CompileError{Source: source, Message: message, Cause: cause}
}

// NewVMFault creates a new VMFault.
func NewVMFault(opcode string, stackDepth int, message string, cause error) *VMFault {
	return &VMFault{Opcode: opcode, StackDepth: stackDepth, Message: message, Cause: cause}
}

// NewEvaluationError creates a new EvaluationError.
func NewEvaluationError(problemName, message string, cause error) *EvaluationError {
	return &EvaluationError{ProblemName: problemName, Message: message, Cause: cause}
}

// NewSearchError creates a new SearchError.
func NewSearchError(problemName string, walkNumber int, message string, cause error) *SearchError {
	return &SearchError{ProblemName: problemName, WalkNumber: walkNumber, Message: message, Cause: cause}
}

// NewHarnessError creates a new HarnessError.
func NewHarnessError(component, message string, cause error) *HarnessError {
	return &HarnessError{Component: component, Message: message, Cause: cause}
}

// IsBroken reports whether err is a *SearchError.
func IsBroken(err error) bool {
	_, ok := err.(*SearchError)
	return ok
}
