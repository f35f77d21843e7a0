package upfront

import (
	"github.com/cs-au-dk/ibex/analysis/cfg"
)

// LocPriorities assigns methods to priorities and instruction offsets within
// methods to priorities.
type LocPriorities struct {
	MethodPriorities map[*cfg.Method]int
	OffsetPriorities map[*cfg.Method][]int
}

// GetLocPriorities uses the SCC decomposition of the call graph to assign
// priorities to methods. Methods are assigned priorities in reverse
// topological order, so callees are processed before their callers. Offsets
// within a method follow the topological order of the instruction graph's
// components; offsets sharing a loop are ordered by dominator pre-order.
func GetLocPriorities(prog *cfg.Program, entry *cfg.Method) LocPriorities {
	reachable := ReachableMethods(prog, entry)
	scc := CallGraph(prog).SCC(reachable)

	methodPriorities := make(map[*cfg.Method]int, len(reachable))
	offsetPriorities := make(map[*cfg.Method][]int, len(reachable))

	time := 0
	// Components are ordered in reverse topological order, so we reuse that ordering
	for _, component := range scc.Components {
		for _, m := range component {
			methodPriorities[m] = time
			time++
		}
	}

	for _, m := range reachable {
		if len(m.Code) == 0 {
			continue
		}

		insGraph := InstructionGraph(m)
		domPreorder := insGraph.DominatorPreorder(0)
		insSCC := insGraph.SCC([]int{0})
		oprios := make([]int, len(m.Code))
		oTime := 0

		// Assign offset priorities in topological component order
		for compIdx := len(insSCC.Components) - 1; compIdx >= 0; compIdx-- {
			component := insSCC.Components[compIdx]
			if len(component) == 1 {
				oprios[component[0]] = oTime
				oTime++
			} else {
				// Order the offsets of a loop by dominator pre-order
				inComponent := map[int]bool{}
				for _, off := range component {
					inComponent[off] = true
				}

				for _, off := range domPreorder {
					if inComponent[off] {
						oprios[off] = oTime
						oTime++
					}
				}
			}
		}

		offsetPriorities[m] = oprios
	}

	return LocPriorities{
		methodPriorities, offsetPriorities,
	}
}
