// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-graph/internal/metrics"
)

// DefaultMaxSteps bounds a single run. The workflow visits at most four
// nodes, so hitting the bound means the graph has a cycle.
const DefaultMaxSteps = 16

var (
	// ErrUnknownNode is returned when an edge points at an unregistered node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrStepLimit is returned when a run exceeds the step bound.
	ErrStepLimit = errors.New("step limit exceeded")
)

// Step is one node of the workflow.
type Step func(ctx context.Context, s State) (Delta, error)

// Branch picks the next node from the current state.
type Branch func(s State) string

// Graph is a directed workflow of named steps with fixed and conditional
// edges. A Graph is built once and may be run concurrently; runs share no
// state.
type Graph struct {
	entry    string
	exit     string
	nodes    map[string]Step
	edges    map[string]string
	branches map[string]Branch
	maxSteps int
	log      zerolog.Logger
}

// NewGraph returns an empty graph that starts at entry and finishes after
// running exit.
func NewGraph(entry, exit string, log zerolog.Logger) *Graph {
	return &Graph{
		entry:    entry,
		exit:     exit,
		nodes:    make(map[string]Step),
		edges:    make(map[string]string),
		branches: make(map[string]Branch),
		maxSteps: DefaultMaxSteps,
		log:      log,
	}
}

// AddNode registers a step under name.
func (g *Graph) AddNode(name string, step Step) {
	g.nodes[name] = step
}

// AddEdge makes to the successor of from.
func (g *Graph) AddEdge(from, to string) {
	g.edges[from] = to
}

// AddBranch makes the successor of from depend on the state it produced.
// A branch takes precedence over a fixed edge.
func (g *Graph) AddBranch(from string, b Branch) {
	g.branches[from] = b
}

// SetMaxSteps changes the step bound.
func (g *Graph) SetMaxSteps(n int) {
	g.maxSteps = n
}

// Validate checks that the entry, the exit and every fixed edge refer to
// registered nodes, and that every non-exit node has a successor.
func (g *Graph) Validate() error {
	for _, name := range []string{g.entry, g.exit} {
		if _, ok := g.nodes[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownNode, name)
		}
	}
	for from, to := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return fmt.Errorf("%w: edge from %q", ErrUnknownNode, from)
		}
		if _, ok := g.nodes[to]; !ok {
			return fmt.Errorf("%w: edge to %q", ErrUnknownNode, to)
		}
	}
	for name := range g.nodes {
		if name == g.exit {
			continue
		}
		_, hasEdge := g.edges[name]
		_, hasBranch := g.branches[name]
		if !hasEdge && !hasBranch {
			return fmt.Errorf("node %q has no successor", name)
		}
	}
	return nil
}

// Run executes the workflow from the entry node and returns the final
// state. A step error stops the run and is returned unchanged together
// with the state reached so far.
func (g *Graph) Run(ctx context.Context, initial State) (State, error) {
	state := initial
	current := g.entry

	for range g.maxSteps {
		step, ok := g.nodes[current]
		if !ok {
			return state, fmt.Errorf("%w: %q", ErrUnknownNode, current)
		}
		if err := ctx.Err(); err != nil {
			return state, err
		}

		done := metrics.TimeStep(current)
		delta, err := step(ctx, state)
		done(err == nil)
		if err != nil {
			g.log.Error().Err(err).Str("step", current).Msg("step failed")
			return state, err
		}
		state = Apply(state, delta)
		g.log.Debug().Str("step", current).Msg("step complete")

		if current == g.exit {
			return state, nil
		}
		current = g.next(current, state)
	}
	return state, fmt.Errorf("%w: %d", ErrStepLimit, g.maxSteps)
}

func (g *Graph) next(from string, s State) string {
	if b, ok := g.branches[from]; ok {
		return b(s)
	}
	return g.edges[from]
}
