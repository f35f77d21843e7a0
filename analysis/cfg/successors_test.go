package cfg

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSuccessors(t *testing.T) {
	m := NewMethodBuilder("cases/Flow", "absDiv", TInt).
		Load(0).        // 0
		IfZero(CondGe, 4). // 1
		Push(0).        // 2
		Store(0).       // 3
		Push(100).      // 4
		Load(0).        // 5
		Div().          // 6
		Return(TInt).   // 7
		MustBuild()

	tests := []struct {
		offset   int
		expected []int
	}{
		{0, []int{1}},
		{1, []int{2, 4}},
		{3, []int{4}},
		{6, []int{7}},
		{7, nil},
		{8, nil},
		{-1, nil},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.expected, Successors(m, tc.offset)); diff != "" {
			t.Errorf("successors of offset %d mismatch (-want +got):\n%s", tc.offset, diff)
		}
	}
}

func TestSuccessorsLoop(t *testing.T) {
	// while (i != 0) i--;
	m := NewMethodBuilder("cases/Flow", "countDown", TInt).
		Load(0).           // 0
		IfZero(CondEq, 5). // 1
		Incr(0, -1).       // 2
		Load(0).           // 3  (dead load keeps the loop body nontrivial)
		Goto(0).           // 4
		ReturnVoid().      // 5
		MustBuild()

	if diff := cmp.Diff([]int{0}, Successors(m, 4)); diff != "" {
		t.Errorf("back edge mismatch (-want +got):\n%s", diff)
	}
	if got := Successors(m, 5); got != nil {
		t.Errorf("return has successors %v", got)
	}
}

func TestSuccessorsThrow(t *testing.T) {
	m := NewMethodBuilder("cases/Flow", "boom").
		New("java/lang/AssertionError"). // 0
		Dup().                           // 1
		Throw().                         // 2
		MustBuild()

	if got := Successors(m, 2); got != nil {
		t.Errorf("throw has successors %v", got)
	}
}

func TestBuilderRejectsBadTarget(t *testing.T) {
	b := NewMethodBuilder("cases/Flow", "oops")
	b.Goto(3)
	b.ReturnVoid()

	if _, err := b.Build(); err == nil || !strings.Contains(err.Error(), "branch target 3") {
		t.Errorf("expected a branch target error, got %v", err)
	}
}

func TestBuilderOffsets(t *testing.T) {
	b := NewMethodBuilder("cases/Flow", "fortyTwo")
	if off := b.Emit(Push{Value: Value{Type: TInt, Int: 42}}); off != 0 {
		t.Errorf("first instruction at offset %d", off)
	}
	if b.Offset() != 1 {
		t.Errorf("next offset is %d, expected 1", b.Offset())
	}
	m := b.Return(TInt).MustBuild()
	if len(m.Code) != 2 {
		t.Errorf("expected 2 instructions, got %d", len(m.Code))
	}
}
