// Package miner implements fragment mining over a codebase of known
// snippets: segmenting each snippet into stack-use-classified code items,
// synthesizing isomorphic variants by substituting same-shape opcodes, and
// aggregating a normalized prior for every item so the MCTS engine can seed
// its move ordering from what has worked before.
package miner

import (
	"math"
	"sort"

	"github.com/tmthrgd/go-hex"
	"golang.org/x/crypto/blake2b"

	"github.com/kaalam/arcsynth/internal/codebase"
	"github.com/kaalam/arcsynth/internal/compiler"
	domainerrors "github.com/kaalam/arcsynth/internal/domain/errors"
	"github.com/kaalam/arcsynth/internal/multicore"
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/value"
	"github.com/kaalam/arcsynth/internal/vm"
)

// weightPriorByForm blends a code item's own observed prior with the mean
// prior of its isomorphism form, matching SearchConf.WEIGHT_PRIOR_BY_FORM.
const weightPriorByForm = 0.3

var stoOpcodes = map[string]bool{
	"sto_a": true, "sto_b": true, "sto_c": true, "sto_d": true, "sto_e": true,
}

var getOrSwapOpcodes = map[string]bool{
	"get_question": true, "get_a": true, "get_b": true, "get_c": true, "get_d": true, "get_e": true,
	"swap_top2": true, "swap_top3": true,
}

// ScoredItem pairs a code item with its aggregated prior, in the flat
// per-stack-use form CodeGen consumes directly.
type ScoredItem struct {
	Item  vm.Code
	Prior float64
}

// Miner holds the mined secondary structure: code items grouped by stack
// use, their normalized priors, and the set of observed item-to-item
// transitions within snippets.
type Miner struct {
	registry *primitive.Registry

	opcodeByRetType map[value.Kind][]primitive.Descriptor

	variantByStackUse map[int][]string
	allelesByVariant  map[string][]vm.Code
	priorByItem       map[string]float64
	formByItem        map[string]string

	// inSnippets is the set of observed hash(prevItems)+hash(item)
	// transitions, consulted by the search engine's prior-boost rule.
	inSnippets map[string]bool

	// ItemPriorByStackUse is the final, CodeGen-ready product: for each
	// stack-use signature, every code item with that signature sorted by
	// descending prior.
	ItemPriorByStackUse map[int][]ScoredItem
}

// Build mines cb against registry, returning a ready-to-query Miner.
func Build(registry *primitive.Registry, cb *codebase.CodeBase) (*Miner, error) {
	m := &Miner{
		registry:          registry,
		opcodeByRetType:   map[value.Kind][]primitive.Descriptor{},
		variantByStackUse: map[int][]string{},
		allelesByVariant:  map[string][]vm.Code{},
		priorByItem:       map[string]float64{},
		formByItem:        map[string]string{},
		inSnippets:        map[string]bool{},
	}

	m.buildOpcodesByRetType()

	if err := m.collectCodeItems(cb); err != nil {
		return nil, err
	}
	m.buildIsomorphisms()
	if err := m.aggregatePriors(); err != nil {
		return nil, err
	}

	return m, nil
}

// StackUse packs (npic, depth) into the single signature key used to group
// code items: npic is first clamped to depth, then depth is zeroed out
// whenever it does not exceed npic.
func StackUse(npic, depth int) int {
	if depth < npic {
		npic = depth
	}
	if depth <= npic {
		depth = 0
	}
	return 1000*npic + depth
}

// StackNPicDepth inverts StackUse.
func StackNPicDepth(use int) (npic, depth int) {
	return use / 1000, use % 1000
}

// InSnippet reports whether the transition from prevItems to item was
// observed in the mined codebase, consulted by the search engine's
// PRIOR_BOOST_IN_SNIPPET rule.
func (m *Miner) InSnippet(prevItems, item vm.Code) bool {
	return m.inSnippets[hashCode(prevItems)+hashCode(item)]
}

func (m *Miner) buildOpcodesByRetType() {
	for _, name := range m.registry.Names() {
		if primitive.IsStackSwap(name) {
			continue
		}
		desc, _ := m.registry.Lookup(name)
		m.opcodeByRetType[desc.RetType] = append(m.opcodeByRetType[desc.RetType], desc)
	}
}

func (m *Miner) collectCodeItems(cb *codebase.CodeBase) error {
	for _, entry := range cb.Entries() {
		if err := m.collectFromEntry(entry); err != nil {
			return err
		}
	}
	return nil
}

func (m *Miner) collectFromEntry(entry codebase.Entry) error {
	mc := multicore.New(m.registry, []multicore.Example{{Question: entry.Sample, Answer: entry.Sample}})
	state := mc.State(0)
	steps := state.Steps(entry.Code)

	var (
		oStackNPic, oStackSize, oMinHeight int
		lStackNPic, lStackSize             int
		lastOp                             *vm.Block
		prevItems, item                    vm.Code
	)

	for _, block := range entry.Code {
		stackHeight := len(state.Stack())
		steps.Next()
		if !state.AllRight() {
			return domainerrors.NewHarnessError("miner", "snippet "+entry.Name+" faulted while mining", nil)
		}

		npic := trailingGridRun(state.Stack())

		cut := lStackNPic > 0 && !stoOpcodes[block.Opcode] &&
			lastOp != nil && lastOp.Opcode != "" && !getOrSwapOpcodes[lastOp.Opcode]

		if cut {
			m.pushItem(item, oStackNPic, maxInt(0, oStackSize-oMinHeight), 1)
			m.inSnippets[hashCode(prevItems)+hashCode(item)] = true
			prevItems = append(append(vm.Code{}, prevItems...), item...)
			item = nil
			oStackNPic, oStackSize, oMinHeight = lStackNPic, lStackSize, lStackSize
		}

		item = append(item, block)
		oMinHeight = minInt(oMinHeight, stackHeight)

		lStackNPic, lStackSize = npic, len(state.Stack())
		b := block
		lastOp = &b
	}

	m.pushItem(item, oStackNPic, maxInt(0, oStackSize-oMinHeight), 1)
	m.inSnippets[hashCode(prevItems)+hashCode(item)] = true
	return nil
}

// trailingGridRun counts the run of Grid-kind values at the top of stack.
func trailingGridRun(stack []value.Value) int {
	n := 0
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Kind() != value.KindGrid {
			break
		}
		n++
	}
	return n
}

func (m *Miner) pushItem(item vm.Code, npic, depth int, priorDelta float64) {
	if len(item) == 0 {
		return
	}
	use := StackUse(npic, depth)
	variant := variantKey(item)
	key := canonicalKey(item)

	if !containsString(m.variantByStackUse[use], variant) {
		m.variantByStackUse[use] = append(m.variantByStackUse[use], variant)
	}
	if _, ok := m.allelesByVariant[variant]; !ok {
		m.allelesByVariant[variant] = nil
	}
	if !containsCode(m.allelesByVariant[variant], key) {
		m.allelesByVariant[variant] = append(m.allelesByVariant[variant], item)
	}

	m.priorByItem[key] += priorDelta
	m.formByItem[key] = formKey(item, m.registry)
}

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsCode(items []vm.Code, key string) bool {
	for _, it := range items {
		if canonicalKey(it) == key {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// aggregatePriors normalizes raw observation counts to [0, 1] via log1p,
// blends each item with its isomorphism form's mean prior (weighted by
// weightPriorByForm), and assembles the final per-stack-use ranking.
func (m *Miner) aggregatePriors() error {
	for key, prior := range m.priorByItem {
		m.priorByItem[key] = math.Log1p(prior)
	}

	minPrior, maxPrior := math.Inf(1), math.Inf(-1)
	for _, prior := range m.priorByItem {
		if prior < minPrior {
			minPrior = prior
		}
		if prior > maxPrior {
			maxPrior = prior
		}
	}
	// aggregate_priors asserts min==0 (an isomorphism placeholder always
	// seeds one) and max>0 (at least one item was actually observed)
	// before scaling; a corrupted corpus that violates either aborts
	// construction rather than silently producing a degenerate table.
	if len(m.priorByItem) > 0 && (minPrior != 0 || maxPrior <= 0) {
		return domainerrors.NewHarnessError("miner", "corrupt prior table: expected a minimum observation prior of 0 and a positive maximum", nil)
	}
	if maxPrior > 0 {
		for key, prior := range m.priorByItem {
			m.priorByItem[key] = prior / maxPrior
		}
	}

	sumByForm := map[string]float64{}
	countByForm := map[string]int{}
	for key, prior := range m.priorByItem {
		form := m.formByItem[key]
		sumByForm[form] += prior
		countByForm[form]++
	}
	meanByForm := map[string]float64{}
	for form, sum := range sumByForm {
		meanByForm[form] = sum / float64(countByForm[form])
	}

	wPrior := 1 - weightPriorByForm
	for key, prior := range m.priorByItem {
		form := m.formByItem[key]
		m.priorByItem[key] = wPrior*prior + weightPriorByForm*meanByForm[form]
	}

	m.ItemPriorByStackUse = map[int][]ScoredItem{}
	for use, variants := range m.variantByStackUse {
		var scored []ScoredItem
		for _, variant := range variants {
			for _, item := range m.allelesByVariant[variant] {
				scored = append(scored, ScoredItem{Item: item, Prior: m.priorByItem[canonicalKey(item)]})
			}
		}
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].Prior > scored[j].Prior })
		m.ItemPriorByStackUse[use] = scored
	}
	return nil
}

// canonicalKey renders item the way Compile would accept back, used as the
// dictionary key identifying an exact code item (an allele).
func canonicalKey(item vm.Code) string {
	return compiler.Decompile(item, false)
}

// hashCode is the original's debugging hash (there an md5 digest of the
// non-pretty decompile): a content digest of a code item's canonical
// rendering, used to build inSnippets's transition keys. blake2b-128 plays
// the same role the original's md5 played, at the same digest width; the
// hasher is built fresh per call since items are hashed far less often
// than opcodes are looked up.
func hashCode(item vm.Code) string {
	h, err := blake2b.New(16, nil)
	if err != nil {
		panic(err) // only returns an error for an out-of-range size or bad key
	}
	h.Write([]byte(canonicalKey(item)))
	return hex.EncodeToString(h.Sum(nil))
}

// variantKey identifies the alleles of an item: opcodes are kept by name,
// literals are generalized to their Kind (discarding the literal value), so
// two items differing only in a literal's numeric payload share a variant.
func variantKey(item vm.Code) string {
	parts := make([]string, len(item))
	for i, block := range item {
		if block.IsLiteral() {
			parts[i] = "lit:" + block.Literal.Kind().String()
		} else {
			parts[i] = "op:" + block.Opcode
		}
	}
	return joinParts(parts)
}

// formKey identifies the isomorphisms of an item: opcodes are generalized
// to their (arg types, return type) signature, literals to their Kind.
func formKey(item vm.Code, registry *primitive.Registry) string {
	parts := make([]string, len(item))
	for i, block := range item {
		if block.IsLiteral() {
			parts[i] = "lit:" + block.Literal.Kind().String()
			continue
		}
		desc, ok := registry.Lookup(block.Opcode)
		if !ok {
			parts[i] = "op:" + block.Opcode
			continue
		}
		parts[i] = "fn:" + argKindsString(desc) + "->" + desc.RetType.String()
	}
	return joinParts(parts)
}

func argKindsString(desc primitive.Descriptor) string {
	parts := make([]string, len(desc.ArgTypes))
	for i, a := range desc.ArgTypes {
		parts[i] = argKindName(a)
	}
	return joinParts(parts)
}

func argKindName(a primitive.ArgKind) string {
	switch a {
	case primitive.ArgInteger:
		return "integer"
	case primitive.ArgIntPair:
		return "int_pair"
	case primitive.ArgNESW:
		return "nesw"
	case primitive.ArgVector:
		return "vector"
	case primitive.ArgGrid:
		return "grid"
	case primitive.ArgMaskedGrid:
		return "masked_grid"
	case primitive.ArgGridTuple:
		return "grid_tuple"
	case primitive.ArgFunction:
		return "function"
	case primitive.ArgCore:
		return "core"
	case primitive.ArgAny:
		return "any"
	default:
		return "unknown"
	}
}

func joinParts(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}
