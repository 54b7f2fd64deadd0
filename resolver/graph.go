/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolver builds named pattern registries from declarations.
package resolver

import (
	"fmt"
	"slices"

	"bennypowers.dev/netpat/diag"
	"bennypowers.dev/netpat/pattern"
)

// DependencyGraph represents a directed graph of named pattern references.
type DependencyGraph struct {
	dependencies map[string][]string
	dependents   map[string][]string
	nodes        map[string]bool
	// order keeps traversal deterministic.
	order []string
}

// BuildDependencyGraph builds a dependency graph from a list of definitions.
// References to names that are not defined are left out of the graph.
func BuildDependencyGraph(defs []Definition) *DependencyGraph {
	graph := &DependencyGraph{
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
		nodes:        make(map[string]bool),
	}

	for _, def := range defs {
		if !graph.nodes[def.Name] {
			graph.nodes[def.Name] = true
			graph.order = append(graph.order, def.Name)
		}
	}

	for _, def := range defs {
		for _, dep := range pattern.References(def.Expr) {
			if !graph.nodes[dep] || slices.Contains(graph.dependencies[def.Name], dep) {
				continue
			}
			graph.dependencies[def.Name] = append(graph.dependencies[def.Name], dep)
			graph.dependents[dep] = append(graph.dependents[dep], def.Name)
		}
	}

	return graph
}

// Dependencies returns the named patterns the given pattern references.
func (g *DependencyGraph) Dependencies(name string) []string {
	if deps, ok := g.dependencies[name]; ok {
		return deps
	}
	return []string{}
}

// Dependents returns the named patterns that reference the given pattern.
func (g *DependencyGraph) Dependents(name string) []string {
	if deps, ok := g.dependents[name]; ok {
		return deps
	}
	return []string{}
}

// HasCycle returns true if the graph contains a circular reference.
func (g *DependencyGraph) HasCycle() bool {
	return g.FindCycle() != nil
}

// FindCycle returns the cycle path if one exists, or nil if no cycle.
// The path starts and ends with the same name.
func (g *DependencyGraph) FindCycle() []string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	for _, node := range g.order {
		if cycle := g.findCycleDFS(node, visited, recStack, nil); cycle != nil {
			return cycle
		}
	}
	return nil
}

func (g *DependencyGraph) findCycleDFS(node string, visited, recStack map[string]bool, path []string) []string {
	if recStack[node] {
		start := slices.Index(path, node)
		if start == -1 {
			panic(fmt.Sprintf("cycle detection invariant violated: node %q in recStack but not in path %v", node, path))
		}
		return append(slices.Clone(path[start:]), node)
	}
	if visited[node] {
		return nil
	}

	visited[node] = true
	recStack[node] = true
	path = append(path, node)

	for _, dep := range g.dependencies[node] {
		if cycle := g.findCycleDFS(dep, visited, recStack, path); cycle != nil {
			return cycle
		}
	}

	recStack[node] = false
	return nil
}

// Remove deletes nodes and every edge touching them.
func (g *DependencyGraph) Remove(names ...string) {
	for _, name := range names {
		if !g.nodes[name] {
			continue
		}
		delete(g.nodes, name)
		g.order = slices.DeleteFunc(g.order, func(n string) bool { return n == name })
		for _, dep := range g.dependencies[name] {
			g.dependents[dep] = slices.DeleteFunc(g.dependents[dep], func(n string) bool { return n == name })
		}
		for _, dependent := range g.dependents[name] {
			g.dependencies[dependent] = slices.DeleteFunc(g.dependencies[dependent], func(n string) bool { return n == name })
		}
		delete(g.dependencies, name)
		delete(g.dependents, name)
	}
}

// TopologicalSort returns names in dependency order (dependencies first).
// Returns error if graph contains a cycle.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, fmt.Errorf("%w: %v", diag.ErrCircularReference, cycle)
	}

	visited := make(map[string]bool)
	result := []string{}

	for _, node := range g.order {
		if !visited[node] {
			g.topologicalSortDFS(node, visited, &result)
		}
	}

	return result, nil
}

func (g *DependencyGraph) topologicalSortDFS(node string, visited map[string]bool, stack *[]string) {
	visited[node] = true

	for _, dep := range g.dependencies[node] {
		if !visited[dep] {
			g.topologicalSortDFS(dep, visited, stack)
		}
	}

	*stack = append(*stack, node)
}
