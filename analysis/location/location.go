package location

import (
	"github.com/cs-au-dk/ibex/utils"

	"github.com/fatih/color"
)

// colorize is used for pretty-printing.
var colorize = struct {
	Site func(...interface{}) string
	Cons func(...interface{}) string
	Nil  func(...interface{}) string
}{
	Site: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiGreen).SprintFunc())(is...)
	},
	Cons: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiYellow).SprintFunc())(is...)
	},
	Nil: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiRed).SprintFunc())(is...)
	},
}

// A location points to something (or nothing) in the abstract memory.
// It can be an allocation site or a static field.
type Location interface {
	Hash() uint32
	Equal(Location) bool
	String() string
}

// LocationHasher needed for immutable.Map
type LocationHasher struct{}

func (LocationHasher) Hash(key Location) uint32 {
	return key.Hash()
}

func (LocationHasher) Equal(a, b Location) bool {
	return a.Equal(b)
}

// AddressableLocation is implemented by pointers bound directly in
// abstract memory. It excludes the nil pointer from such lookups.
type AddressableLocation interface {
	Location
	addressableTag()
}

// addressable is a property embedded by all addressable heap locations.
type addressable struct{}

func (addressable) addressableTag() {}
