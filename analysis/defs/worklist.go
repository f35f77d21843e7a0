package defs

import (
	"fmt"

	u "github.com/cs-au-dk/ibex/analysis/upfront"
	"github.com/cs-au-dk/ibex/utils/pq"
)

// EmptyWorklist creates a worklist of program locations ordered according to
// the priorities computed by upfront.GetLocPriorities. The list also uses a
// map of the contained elements to prevent duplicates.
func EmptyWorklist(prios u.LocPriorities) pq.PriorityQueue[Loc] {
	methodPriorities, offsetPriorities := prios.MethodPriorities, prios.OffsetPriorities

	if methodPriorities == nil {
		panic("Location priorities are uninitialized!")
	}

	return pq.Empty(func(a, b Loc) bool {
		ma, mb := a.Method, b.Method

		if ma == mb {
			// We use offset priorities to compare locations in the same method
			oprios := offsetPriorities[ma]

			getOffsetPrio := func(l Loc) int {
				if l.Offset < 0 || l.Offset >= len(oprios) {
					panic(fmt.Errorf("Missing priority for %s", l))
				}
				return oprios[l.Offset]
			}

			ao, bo := getOffsetPrio(a), getOffsetPrio(b)
			if ao != bo {
				return ao < bo
			}

			return a.Offset < b.Offset
		} else {
			p1, f1 := methodPriorities[ma]
			p2, f2 := methodPriorities[mb]

			if !f1 {
				panic(fmt.Errorf("Missing priority for %s", ma))
			} else if !f2 {
				panic(fmt.Errorf("Missing priority for %s", mb))
			}

			return p1 < p2
		}
	})
}
