// Package upfront computes the cheap whole-program facts the analysis
// consumes before stepping: the static call graph, the methods reachable
// from the entry, and the location priorities that order the worklist.
package upfront

import (
	"github.com/cs-au-dk/ibex/analysis/cfg"
	"github.com/cs-au-dk/ibex/utils/graph"

	uf "github.com/spakin/disjoint"
)

// CallGraph returns the static call graph of the program. Invocations of
// methods outside the program yield no edge.
func CallGraph(prog *cfg.Program) graph.Graph[*cfg.Method] {
	return graph.OfHashable(func(m *cfg.Method) (res []*cfg.Method) {
		seen := map[*cfg.Method]bool{}
		for _, ins := range m.Code {
			inv, ok := ins.(cfg.InvokeStatic)
			if !ok {
				continue
			}
			if callee, found := prog.Lookup(inv.Method); found && !seen[callee] {
				seen[callee] = true
				res = append(res, callee)
			}
		}
		return
	})
}

// InstructionGraph returns the intra-method successor graph over the
// instruction offsets of m.
func InstructionGraph(m *cfg.Method) graph.Graph[int] {
	return graph.OfHashable(func(off int) []int {
		return cfg.Successors(m, off)
	})
}

// ReachableMethods returns the methods in the call-graph component of the
// entry, in program order. Components are computed with union-find over the
// invocation edges, so a caller of the entry belongs to the component even
// when the entry never calls back.
func ReachableMethods(prog *cfg.Program, entry *cfg.Method) []*cfg.Method {
	methods := prog.Methods()

	elems := make(map[*cfg.Method]*uf.Element, len(methods))
	for _, m := range methods {
		el := uf.NewElement()
		el.Data = m
		elems[m] = el
	}

	for _, m := range methods {
		for _, ins := range m.Code {
			inv, ok := ins.(cfg.InvokeStatic)
			if !ok {
				continue
			}
			if callee, found := prog.Lookup(inv.Method); found {
				uf.Union(elems[m], elems[callee])
			}
		}
	}

	root, ok := elems[entry]
	if !ok {
		return nil
	}

	var res []*cfg.Method
	for _, m := range methods {
		if elems[m].Find() == root.Find() {
			res = append(res, m)
		}
	}
	return res
}
