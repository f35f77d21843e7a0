package graph

import "fmt"

// Iterative dominator computation.
// Source: https://www.cs.rice.edu/~keith/EMBED/dom.pdf

// dominators computes a DFS post-order of the subgraph reachable from root
// and the immediate dominator (as a post-order index) of every visited node.
func (G Graph[T]) dominators(root T) (order []T, potime Mapper[T], doms []int) {
	potime = G.mapFactory()
	preds := G.mapFactory()

	// Compute a DFS post-order of the reachable subgraph, recording the
	// predecessors of each visited node along the way.
	time := 0

	var dfs func(T)
	dfs = func(node T) {
		if _, seen := potime.Get(node); seen {
			return
		}

		potime.Set(node, -1)

		for _, e := range G.Edges(node) {
			var ps []T
			if psItf, found := preds.Get(e); found {
				ps = psItf.([]T)
			}

			preds.Set(e, append(ps, node))

			dfs(e)
		}

		potime.Set(node, time)
		order = append(order, node)
		time++
	}

	dfs(root)

	// doms[i] is the post-order index of the immediate dominator of
	// order[i], or -1 while undefined. The root dominates itself.
	doms = make([]int, time)
	for i := range doms {
		doms[i] = -1
	}
	doms[time-1] = time - 1

	intersect := func(a, b int) int {
		for a != b {
			if a < b {
				a = doms[a]
			} else {
				b = doms[b]
			}
		}
		return a
	}

	for {
		changed := false

		// Process nodes in reverse post-order (except for root)
		for i := time - 2; i >= 0; i-- {
			node := order[i]

			newIdom := -1
			psItf, _ := preds.Get(node)

			for _, pred := range psItf.([]T) {
				jItf, _ := potime.Get(pred)
				j := jItf.(int)

				if doms[j] != -1 {
					if newIdom == -1 {
						newIdom = j
					} else {
						newIdom = intersect(j, newIdom)
					}
				}
			}

			if newIdom != doms[i] {
				doms[i] = newIdom
				changed = true
			}
		}

		if !changed {
			break
		}
	}

	return
}

// DominatorTree computes the dominator tree of the subgraph reachable from
// root. The returned function computes the nearest common dominator of a
// set of nodes. It panics if given a node that was not reachable from root.
func (G Graph[T]) DominatorTree(root T) func(...T) T {
	order, potime, doms := G.dominators(root)

	intersect := func(a, b int) int {
		for a != b {
			if a < b {
				a = doms[a]
			} else {
				b = doms[b]
			}
		}
		return a
	}

	return func(nodes ...T) T {
		if len(nodes) == 0 {
			panic("Empty list of nodes for dominator computation")
		}

		dom := -1
		for _, node := range nodes {
			iItf, found := potime.Get(node)
			if !found {
				panic(fmt.Errorf("%v was not reachable when computing the dominator tree", node))
			}

			i := iItf.(int)
			if dom == -1 {
				dom = i
			} else {
				dom = intersect(i, dom)
			}
		}

		return order[dom]
	}
}

// DominatorPreorder returns the nodes reachable from root in a pre-order
// walk of the dominator tree. Siblings are visited in falling post-order
// time, which keeps the result deterministic.
func (G Graph[T]) DominatorPreorder(root T) []T {
	order, _, doms := G.dominators(root)

	children := make([][]int, len(order))
	for i := len(order) - 2; i >= 0; i-- {
		parent := doms[i]
		children[parent] = append(children[parent], i)
	}

	res := make([]T, 0, len(order))
	var visit func(int)
	visit = func(i int) {
		res = append(res, order[i])
		for _, c := range children[i] {
			visit(c)
		}
	}
	visit(len(order) - 1)

	return res
}
