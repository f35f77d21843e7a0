package absint

import (
	"fmt"
	"io"
	"strings"

	"github.com/cs-au-dk/ibex/analysis/cfg"
	"github.com/cs-au-dk/ibex/analysis/defs"
	"github.com/cs-au-dk/ibex/utils/dot"
)

// VisualizeDot renders the explored location graph as DOT: one cluster
// per method, nodes labelled with the instruction and an abbreviated
// view of the active frame, edges showing the observed transitions.
// Edges crossing methods (calls and returns) are bold. Locations with
// recorded step failures are filled red.
func (r *Result) VisualizeDot(w io.Writer) error {
	return r.dotGraph().WriteDot(w)
}

// Visualize displays the explored location graph with xdot.
func (r *Result) Visualize() {
	r.dotGraph().ShowDot()
}

func (r *Result) dotGraph() *dot.DotGraph {
	G := &dot.DotGraph{
		Title: "Explored locations",
		Options: map[string]string{
			"minlen":  "1",
			"nodesep": "0.3",
			"rankdir": "TB",
		},
	}

	locs := r.Locations()

	clusters := make(map[*cfg.Method]*dot.DotCluster)
	locToDotNode := make(map[defs.Loc]*dot.DotNode)

	for _, l := range locs {
		m := l.Method

		cluster, found := clusters[m]
		if !found {
			id := m.Ref.String()
			cluster = dot.NewDotCluster(id)
			cluster.Attrs["label"] = id
			cluster.Attrs["bgcolor"] = "#e6ffff"
			clusters[m] = cluster
			G.Clusters = append(G.Clusters, cluster)
		}

		dnode := &dot.DotNode{
			// Make node IDs unique across methods (offsets repeat in
			// every method).
			ID: fmt.Sprintf("%s-%d", m.Ref.String(), l.Offset),
			Attrs: dot.DotAttrs{
				"label": nodeLabel(l, r.best[l]),
			},
		}
		if _, failed := r.failures[l]; failed {
			dnode.Attrs["fillcolor"] = "#f78f8f"
		}

		cluster.Nodes = append(cluster.Nodes, dnode)
		locToDotNode[l] = dnode
	}

	for _, from := range locs {
		tos := make([]defs.Loc, 0, len(r.edges[from]))
		for to := range r.edges[from] {
			tos = append(tos, to)
		}
		sortLocs(tos)

		for _, to := range tos {
			if locToDotNode[to] == nil {
				continue
			}

			attrs := dot.DotAttrs{}
			if from.Method != to.Method {
				attrs["style"] = "bold"
			}
			G.Edges = append(G.Edges, &dot.DotEdge{
				From:  locToDotNode[from],
				To:    locToDotNode[to],
				Attrs: attrs,
			})
		}
	}

	return G
}

// nodeLabel abbreviates a location's best state for its graph node:
// the instruction, the operand stack base to top, and the call depth
// when the state is not in the outermost frame.
func nodeLabel(l defs.Loc, state State) string {
	lines := []string{fmt.Sprintf("%d: %s", l.Offset, insnString(l))}

	f := state.ActiveFrame()
	if f.StackLen() > 0 {
		strs := make([]string, 0, f.StackLen())
		for fr := f; fr.StackLen() > 0; {
			var v fmt.Stringer
			v, fr = fr.Pop()
			strs = append([]string{v.String()}, strs...)
		}
		lines = append(lines, "["+strings.Join(strs, " ")+"]")
	}

	if state.CallDepth() > 1 {
		lines = append(lines, fmt.Sprintf("depth %d", state.CallDepth()))
	}

	return strings.Join(lines, "\n")
}

func insnString(l defs.Loc) string {
	if ins := l.Instruction(); ins != nil {
		return ins.String()
	}
	return "?"
}
