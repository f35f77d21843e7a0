// Package cfg models decoded JVM bytecode programs: methods of addressable
// instructions, method references, and static intra-method control flow.
package cfg

import (
	"fmt"

	"github.com/cs-au-dk/ibex/utils"
	"github.com/cs-au-dk/ibex/utils/hmap"

	"github.com/benbjohnson/immutable"
)

// Method is a decoded method body. Code is indexed by instruction offset.
type Method struct {
	Ref  MethodRef
	Code []Instruction
}

func (m *Method) String() string {
	return m.Ref.String()
}

// NumParams returns the number of declared parameters.
func (m *Method) NumParams() int {
	return len(m.Ref.Params)
}

// refHasher hashes method references by class, name and parameter types.
type refHasher struct {
	strs immutable.Hasher[string]
}

// RefHasher returns a hasher for MethodRef keys.
func RefHasher() utils.Hasher[MethodRef] {
	return refHasher{immutable.NewHasher("")}
}

func (h refHasher) Hash(ref MethodRef) uint32 {
	hash := utils.HashCombine(h.strs.Hash(ref.Class), h.strs.Hash(ref.Name))
	for _, p := range ref.Params {
		hash = utils.HashCombine(hash, h.strs.Hash(string(p)))
	}
	return hash
}

func (h refHasher) Equal(a, b MethodRef) bool {
	return a.Equal(b)
}

// Program is a collection of decoded methods, indexed by reference.
type Program struct {
	index *hmap.Map[MethodRef, *Method]
	order []*Method
}

// NewProgram assembles a program from the given methods. Duplicate method
// references are an error.
func NewProgram(methods ...*Method) (*Program, error) {
	p := &Program{index: hmap.NewMap[*Method](RefHasher())}
	for _, m := range methods {
		if err := p.add(m); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Program) add(m *Method) error {
	if _, found := p.index.GetOk(m.Ref); found {
		return fmt.Errorf("duplicate method %s", m)
	}
	p.index.Set(m.Ref, m)
	p.order = append(p.order, m)
	return nil
}

// Lookup finds a method by reference.
func (p *Program) Lookup(ref MethodRef) (*Method, bool) {
	return p.index.GetOk(ref)
}

// Methods returns all methods in declaration order.
func (p *Program) Methods() []*Method {
	return p.order
}
