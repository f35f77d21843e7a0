package location

import (
	"github.com/cs-au-dk/ibex/analysis/cfg"
	"github.com/cs-au-dk/ibex/utils"

	"github.com/benbjohnson/immutable"
)

var strHasher = immutable.NewHasher("")

// GlobalLocation represents the heap location of a static field.
type GlobalLocation struct {
	addressable
	Field cfg.Field
}

func (l GlobalLocation) Equal(ol Location) bool {
	o, ok := ol.(GlobalLocation)
	return ok && l == o
}

func (l GlobalLocation) Hash() uint32 {
	return utils.HashCombine(
		strHasher.Hash(l.Field.Class),
		strHasher.Hash(l.Field.Name),
	)
}

func (l GlobalLocation) String() string {
	return colorize.Cons("Global") + "(" +
		colorize.Site(l.Field.String()) + ")"
}
