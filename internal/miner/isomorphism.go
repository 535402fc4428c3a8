package miner

import (
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/value"
	"github.com/kaalam/arcsynth/internal/vm"
)

// isomorphismRetKinds are the return kinds eligible for opcode substitution:
// a picture, a grid tuple, or a pattern — matching the original's
// restriction to Block.type_picture/type_pictures/type_pattern.
var isomorphismRetKinds = map[value.Kind]bool{
	value.KindGrid:       true,
	value.KindGridTuple:  true,
	value.KindMaskedGrid: true,
}

// isomorphisms returns every candidate obtained by replacing exactly one
// eligible opcode call in item with a different opcode of identical
// argument/return shape — a snippet that plugged in "rotate" where
// "transpose" would have fit just as well is evidence both belong to the
// same secondary-structure slot.
func (m *Miner) isomorphisms(item vm.Code) []vm.Code {
	var out []vm.Code

	for i, block := range item {
		if block.IsLiteral() {
			continue
		}
		desc, ok := m.registry.Lookup(block.Opcode)
		if !ok || !isomorphismRetKinds[desc.RetType] || desc.NeedsCore() {
			continue
		}

		for _, alt := range m.opcodeByRetType[desc.RetType] {
			if alt.Name == desc.Name || !sameArgTypes(alt.ArgTypes, desc.ArgTypes) {
				continue
			}
			variant := make(vm.Code, len(item))
			copy(variant, item)
			variant[i] = vm.NewCall(alt.Name)
			out = append(out, variant)
		}
	}

	return out
}

func sameArgTypes(a, b []primitive.ArgKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// buildIsomorphisms extends every item seen more than once with its
// substitution candidates, seeding them into the same dictionaries with a
// zero initial prior (aggregatePriors later lifts them via their form's
// mean, exactly like the original's "isomorphisms start at 0 but inherit
// from prior_by_form" comment).
func (m *Miner) buildIsomorphisms() {
	type seed struct {
		item        vm.Code
		npic, depth int
	}
	var seeds []seed

	for use, variants := range m.variantByStackUse {
		npic, depth := StackNPicDepth(use)
		for _, variant := range variants {
			for _, item := range m.allelesByVariant[variant] {
				if m.priorByItem[canonicalKey(item)] <= 1 {
					continue
				}
				for _, iso := range m.isomorphisms(item) {
					key := canonicalKey(iso)
					if _, exists := m.priorByItem[key]; exists {
						continue
					}
					m.priorByItem[key] = 0
					seeds = append(seeds, seed{item: iso, npic: npic, depth: depth})
				}
			}
		}
	}

	for _, s := range seeds {
		m.pushItem(s.item, s.npic, s.depth, 0)
	}
}
