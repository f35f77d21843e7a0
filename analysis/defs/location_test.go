package defs

import (
	"testing"

	"github.com/cs-au-dk/ibex/analysis/cfg"
)

func branchingMethod(t *testing.T) *cfg.Method {
	t.Helper()
	return cfg.NewMethodBuilder("cases/Defs", "absOrZero", cfg.TInt).
		Load(0).               // 0
		IfZero(cfg.CondGe, 4). // 1
		Push(0).               // 2
		Return(cfg.TInt).      // 3
		Load(0).               // 4
		Return(cfg.TInt).      // 5
		MustBuild()
}

func TestLocSuccessors(t *testing.T) {
	m := branchingMethod(t)
	entry := Loc{Method: m, Offset: 0}

	if succs := entry.Successors(); len(succs) != 1 || succs[0] != entry.Succ() {
		t.Errorf("successors of %s = %v", entry, succs)
	}

	branch := entry.Derive(1)
	succs := branch.Successors()
	if len(succs) != 2 || succs[0] != branch.Derive(2) || succs[1] != branch.Derive(4) {
		t.Errorf("successors of %s = %v", branch, succs)
	}

	ret := entry.Derive(3)
	if succs := ret.Successors(); len(succs) != 0 {
		t.Errorf("return location has successors %v", succs)
	}
}

func TestLocInstruction(t *testing.T) {
	m := branchingMethod(t)

	l := Loc{Method: m, Offset: 1}
	if _, ok := l.Instruction().(cfg.IfZero); !ok {
		t.Errorf("instruction at %s is %T", l, l.Instruction())
	}
	if ins := l.Derive(17).Instruction(); ins != nil {
		t.Errorf("out-of-range location yields instruction %v", ins)
	}
}

func TestLocHash(t *testing.T) {
	m := branchingMethod(t)
	l := Loc{Method: m, Offset: 0}

	if l.Hash() != (Loc{Method: m, Offset: 0}).Hash() {
		t.Errorf("equal locations hash differently")
	}
	if l.Hash() == l.Succ().Hash() {
		t.Errorf("distinct offsets collide")
	}

	hasher := LocHasher()
	if !hasher.Equal(l, l.Derive(0)) || hasher.Equal(l, l.Succ()) {
		t.Errorf("hasher equality disagrees with ==")
	}
}
