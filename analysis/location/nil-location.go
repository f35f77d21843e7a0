package location

// NilLocation represents the nil reference.
type NilLocation struct{}

func (n NilLocation) Hash() uint32 {
	return 42
}

func (n NilLocation) Equal(o Location) bool {
	_, ok := o.(NilLocation)
	return ok
}

func (n NilLocation) String() string {
	return colorize.Nil("null")
}
