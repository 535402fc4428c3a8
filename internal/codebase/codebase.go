// Package codebase implements the `.bopDB:` plain-text code-base format: a
// named collection of compiled snippets, each paired with the source lines
// it was compiled from and a sample grid the miner can use to seed a
// 1-example multicore run without needing the snippet's full arity.
package codebase

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kaalam/arcsynth/internal/compiler"
	domainerrors "github.com/kaalam/arcsynth/internal/domain/errors"
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/value"
	"github.com/kaalam/arcsynth/internal/vm"
)

// Entry is one named snippet: its compiled code, the source lines it came
// from, and the sample grid recorded alongside it.
type Entry struct {
	Name   string
	Source []string
	Code   vm.Code
	Sample value.Grid
}

// CodeBase holds a collection of uniquely-named Entry values, addressable
// by name.
type CodeBase struct {
	entries []Entry
	byName  map[string]int
}

// New creates an empty CodeBase.
func New() *CodeBase {
	return &CodeBase{byName: make(map[string]int)}
}

// Add appends an entry. name must be unique and at least three characters,
// matching the original's naming constraint.
func (cb *CodeBase) Add(name string, source []string, code vm.Code, sample value.Grid) error {
	if len(name) < 3 {
		return domainerrors.NewHarnessError("codebase", fmt.Sprintf("snippet name %q must be at least three characters", name), nil)
	}
	if _, exists := cb.byName[name]; exists {
		return domainerrors.NewHarnessError("codebase", fmt.Sprintf("duplicate snippet name %q", name), nil)
	}
	cb.byName[name] = len(cb.entries)
	cb.entries = append(cb.entries, Entry{Name: name, Source: source, Code: code, Sample: sample})
	return nil
}

// ByName looks an entry up by name.
func (cb *CodeBase) ByName(name string) (Entry, bool) {
	i, ok := cb.byName[name]
	if !ok {
		return Entry{}, false
	}
	return cb.entries[i], true
}

// Len reports how many entries are loaded.
func (cb *CodeBase) Len() int { return len(cb.entries) }

// Entries returns every loaded entry, in load/insertion order.
func (cb *CodeBase) Entries() []Entry {
	out := make([]Entry, len(cb.entries))
	copy(out, cb.entries)
	return out
}

// Load reads a `.bopDB:`-headed code-base from r, compiling every snippet's
// source against registry. Entries are appended to a fresh CodeBase; names
// colliding within the file are rejected the same way Add rejects them.
func Load(registry *primitive.Registry, r io.Reader) (*CodeBase, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, domainerrors.NewHarnessError("codebase", "failed to read code-base", err)
	}
	if len(lines) < 3 || !strings.HasPrefix(lines[0], ".bopDB") {
		return nil, domainerrors.NewHarnessError("codebase", "missing .bopDB: header", nil)
	}

	cb := New()

	var (
		name        string
		haveName    bool
		sourceLines []string
		sourceDone  bool
		code        vm.Code
		sampleText  string
	)

	for _, line := range lines[3:] {
		switch {
		case !haveName:
			if line == ".eof." {
				return cb, nil
			}
			name = line
			sourceLines = nil
			sourceDone = false
			haveName = true

		case strings.HasPrefix(line, "-"):
			sourceLines = nil

		case line == "":
			if !sourceDone {
				compiled, err := compiler.Compile(registry, strings.Join(sourceLines, "\n"))
				if err != nil {
					return nil, err
				}
				code = compiled
				sourceDone = true
				continue
			}
			grid, err := compiler.ParseGridLiteral(sampleText)
			if err != nil {
				return nil, domainerrors.NewHarnessError("codebase", "malformed sample grid for "+name, err)
			}
			if err := cb.Add(name, sourceLines, code, grid); err != nil {
				return nil, err
			}
			haveName = false

		default:
			if !sourceDone {
				sourceLines = append(sourceLines, line)
			} else {
				sampleText = line
			}
		}
	}

	return nil, domainerrors.NewHarnessError("codebase", "missing .eof. terminator", nil)
}

// Save writes cb to w in `.bopDB:` format, sorted by name (matching the
// original's save(), which always writes names in sorted order regardless
// of insertion order).
func (cb *CodeBase) Save(w io.Writer, dbName string) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, ".bopDB: %s\n\n\n", dbName); err != nil {
		return domainerrors.NewHarnessError("codebase", "failed to write header", err)
	}

	names := make([]string, len(cb.entries))
	for i, e := range cb.entries {
		names[i] = e.Name
	}
	sort.Strings(names)

	for _, name := range names {
		entry, _ := cb.ByName(name)

		fmt.Fprintf(bw, "%s\n", entry.Name)
		fmt.Fprintf(bw, "%s\n", strings.Repeat("-", len(entry.Name)))
		for _, stmt := range entry.Source {
			fmt.Fprintf(bw, "%s\n", stmt)
		}
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "%s\n", compiler.GridLiteral(entry.Sample))
		fmt.Fprintln(bw)
	}

	fmt.Fprint(bw, ".eof.")
	return bw.Flush()
}
