package config

import (
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue/token"
)

// CycleError is a set of presets that include each other.
type CycleError struct {
	// Path is the cycle, starting and ending at the same preset:
	// ["a", "b", "a"].
	Path []string
	Pos  token.Pos
}

func (e *CycleError) Error() string {
	msg := "preset includes itself: " + strings.Join(e.Path, " -> ")
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), msg)
	}
	return msg
}

// AnalyzeCycles finds presets that reach themselves through their nested
// presets. References to presets not in specs (builtins, inline items) end
// the search.
//
// The algorithm:
//  1. Build a preset -> nested preset graph
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or a self-loop
func AnalyzeCycles(specs []PresetSpec) []*CycleError {
	graph := buildPresetGraph(specs)
	pos := map[string]token.Pos{}
	for _, p := range specs {
		pos[p.Name] = p.Pos
	}

	var cycles []*CycleError
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			path := reconstructCyclePath(scc, graph)
			cycles = append(cycles, &CycleError{Path: path, Pos: pos[path[0]]})
		}
	}
	slices.SortFunc(cycles, func(a, b *CycleError) int { return strings.Compare(a.Path[0], b.Path[0]) })
	return cycles
}

// presetGraph maps a preset name to the defined presets it includes.
type presetGraph map[string][]string

func buildPresetGraph(specs []PresetSpec) presetGraph {
	defined := map[string]bool{}
	for _, p := range specs {
		defined[p.Name] = true
	}

	graph := make(presetGraph)
	for _, p := range specs {
		graph[p.Name] = []string{}
		for _, it := range p.Presets {
			if it.Preset == nil && defined[it.Name] {
				graph[p.Name] = append(graph[p.Name], it.Name)
			}
		}
	}
	return graph
}

func hasSelfLoop(node string, graph presetGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in sorted order so results are deterministic.
func tarjanSCC(graph presetGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is the root of an SCC
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	slices.Sort(nodes)
	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

// reconstructCyclePath walks the SCC from its smallest name until it
// returns to the start.
func reconstructCyclePath(scc []string, graph presetGraph) []string {
	members := map[string]bool{}
	for _, node := range scc {
		members[node] = true
	}

	start := slices.Min(scc)
	current := start
	path := []string{current}
	visited := map[string]bool{}
	for {
		visited[current] = true
		var next string
		for _, neighbor := range graph[current] {
			if members[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
