package lattice

type (
	// factory is a structure that implements methods from which to
	// access the abstract value factory.
	factory struct{}

	// elementFactory is a structure that implements methods for creating
	// abstract values.
	elementFactory struct{}
)

// elFact is a singleton instantiation of the abstract value factory.
var elFact = elementFactory{}

// Element gives access to the abstract value factory.
func (factory) Element() elementFactory {
	return elFact
}

// Create returns a factory for which the methods are used to create
// abstract values.
func Create() factory {
	return factory{}
}

// Elements returns a factory for which the methods are used to create
// abstract values.
func Elements() elementFactory {
	return elementFactory{}
}
