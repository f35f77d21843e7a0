package location

import (
	"fmt"

	"github.com/cs-au-dk/ibex/analysis/defs"
)

// AllocationSiteLocation encodes an abstract heap location created through a
// new/newarray instruction. Allocation sites are addressable, and are
// identified by the program location of the allocating instruction.
type AllocationSiteLocation struct {
	addressable
	Site defs.Loc
}

func (l AllocationSiteLocation) Equal(ol Location) bool {
	o, ok := ol.(AllocationSiteLocation)
	return ok && l == o
}

func (l AllocationSiteLocation) Hash() uint32 {
	return l.Site.Hash()
}

func (l AllocationSiteLocation) String() string {
	return fmt.Sprintf("‹%s %s›",
		colorize.Cons("alloc"),
		colorize.Site(l.Site))
}
