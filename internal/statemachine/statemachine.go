// Package statemachine provides a generic finite-state-transition validator
// driven by a static adjacency table per entity type. Shift, ShiftOffer,
// Assignment, Timesheet and Invoice all validate their status changes
// through it, so an invalid status can never be written.
package statemachine

import (
	apperrors "staffing-platform-backend/internal/errors"
)

// Graph holds the allowed transitions for one entity type
type Graph[S ~string] struct {
	entity string
	edges  map[S][]S
}

// New builds a transition graph from an adjacency table
func New[S ~string](entity string, edges map[S][]S) *Graph[S] {
	return &Graph[S]{entity: entity, edges: edges}
}

// Entity returns the entity name the graph validates
func (g *Graph[S]) Entity() string {
	return g.entity
}

// CanTransition reports whether the edge from->to exists. A self-transition
// is always allowed (idempotent no-op).
func (g *Graph[S]) CanTransition(from, to S) bool {
	if from == to {
		return true
	}
	for _, next := range g.edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates the edge and returns the prior state so callers can
// emit "from->to" events. Transitioning to the current state is a no-op
// success. An absent edge fails with InvalidTransitionError stating both the
// current and the attempted state.
func (g *Graph[S]) Transition(current, next S) (S, error) {
	if !g.CanTransition(current, next) {
		return current, &apperrors.InvalidTransitionError{
			Entity: g.entity,
			From:   string(current),
			To:     string(next),
		}
	}
	return current, nil
}

// IsTerminal reports whether the state has no outgoing edges
func (g *Graph[S]) IsTerminal(s S) bool {
	return len(g.edges[s]) == 0
}
