package graph

import (
	"sort"
	"testing"

	"github.com/cs-au-dk/ibex/utils"
)

var edges = map[int][]int{
	0:  {1, 8},
	1:  {4, 5, 2},
	2:  {6, 3, 9},
	3:  {2, 7},
	4:  {0, 5},
	5:  {6},
	6:  {5},
	7:  {3, 6},
	8:  {},
	9:  {10, 11},
	10: {12, 13},
	11: {12, 13},
	12: {},
	13: {},
}

var _sampleGraph = FromMap(edges)

func reachable(t *testing.T, G Graph[int], start int) []int {
	t.Helper()
	var nodes []int
	G.BFS(start, func(node int) bool {
		nodes = append(nodes, node)
		return false
	})
	sort.Ints(nodes)
	return nodes
}

func TestBFS(t *testing.T) {
	got := reachable(t, _sampleGraph, 9)
	want := []int{9, 10, 11, 12, 13}
	if len(got) != len(want) {
		t.Fatalf("reachable(9) = %v, want %v", got, want)
	}
	for i, n := range want {
		if got[i] != n {
			t.Fatalf("reachable(9) = %v, want %v", got, want)
		}
	}

	if stopped := _sampleGraph.BFS(8, func(int) bool { return false }); stopped {
		t.Errorf("BFS from sink reported early stop")
	}

	stopped := _sampleGraph.BFS(0, func(node int) bool { return node == 6 })
	if !stopped {
		t.Errorf("BFS did not stop at node 6 despite it being reachable from 0")
	}
}

func TestOfHasher(t *testing.T) {
	G := OfHasher[int](utils.IntHasher[int]{}, func(node int) []int {
		return edges[node]
	})

	got := reachable(t, G, 9)
	if len(got) != 5 {
		t.Errorf("reachable(9) = %v, want 5 nodes", got)
	}
}

func TestDominatorTree(t *testing.T) {
	// Diamond with a tail: 0 -> {1 2}, {1 2} -> 3, 3 -> 4.
	G := FromMap(map[int][]int{
		0: {1, 2},
		1: {3},
		2: {3},
		3: {4},
	})

	ncd := G.DominatorTree(0)

	tests := []struct {
		nodes []int
		want  int
	}{
		{[]int{4}, 4},
		{[]int{1, 2}, 0},
		{[]int{3, 4}, 3},
		{[]int{1, 3}, 0},
		{[]int{2, 4}, 0},
	}

	for _, test := range tests {
		if got := ncd(test.nodes...); got != test.want {
			t.Errorf("ncd(%v) = %d, want %d", test.nodes, got, test.want)
		}
	}
}

func TestDominatorTreeLoop(t *testing.T) {
	// 1 <-> 2 loop entered from 0, exiting to 3.
	G := FromMap(map[int][]int{
		0: {1},
		1: {2},
		2: {1, 3},
	})

	ncd := G.DominatorTree(0)

	if got := ncd(1, 2); got != 1 {
		t.Errorf("ncd(1, 2) = %d, want 1", got)
	}
	if got := ncd(2, 3); got != 2 {
		t.Errorf("ncd(2, 3) = %d, want 2", got)
	}
}

func TestDominatorPreorder(t *testing.T) {
	// Diamond with a tail: 0 -> {1 2}, {1 2} -> 3, 3 -> 4.
	G := FromMap(map[int][]int{
		0: {1, 2},
		1: {3},
		2: {3},
		3: {4},
	})

	pre := G.DominatorPreorder(0)
	if len(pre) != 5 {
		t.Fatalf("preorder %v does not cover the graph", pre)
	}
	if pre[0] != 0 {
		t.Errorf("preorder %v does not start at the root", pre)
	}

	index := map[int]int{}
	for i, n := range pre {
		index[n] = i
	}
	// Dominators come before the nodes they dominate.
	if index[3] > index[4] {
		t.Errorf("preorder %v places 4 before its dominator 3", pre)
	}
	for _, n := range []int{1, 2, 3, 4} {
		if index[n] <= index[0] {
			t.Errorf("preorder %v places %d before the root", pre, n)
		}
	}
}
