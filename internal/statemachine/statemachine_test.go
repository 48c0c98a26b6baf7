package statemachine_test

import (
	"testing"

	apperrors "staffing-platform-backend/internal/errors"
	"staffing-platform-backend/internal/statemachine"

	"github.com/stretchr/testify/assert"
)

type phase string

const (
	phaseDraft     phase = "draft"
	phaseRunning   phase = "running"
	phaseDone      phase = "done"
	phaseAbandoned phase = "abandoned"
)

func newGraph() *statemachine.Graph[phase] {
	return statemachine.New("job", map[phase][]phase{
		phaseDraft:   {phaseRunning, phaseAbandoned},
		phaseRunning: {phaseDone, phaseAbandoned},
	})
}

func TestTransition_AllowedEdge(t *testing.T) {
	g := newGraph()

	prior, err := g.Transition(phaseDraft, phaseRunning)

	assert.NoError(t, err)
	assert.Equal(t, phaseDraft, prior)
}

func TestTransition_AbsentEdge(t *testing.T) {
	g := newGraph()

	_, err := g.Transition(phaseDraft, phaseDone)

	var invalid *apperrors.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, "job", invalid.Entity)
	assert.Equal(t, "draft", invalid.From)
	assert.Equal(t, "done", invalid.To)
}

func TestTransition_SelfIsNoOp(t *testing.T) {
	g := newGraph()

	// Re-applying the current state never errors, even in a terminal state
	prior, err := g.Transition(phaseDone, phaseDone)

	assert.NoError(t, err)
	assert.Equal(t, phaseDone, prior)
}

func TestTransition_FromTerminalState(t *testing.T) {
	g := newGraph()

	_, err := g.Transition(phaseDone, phaseRunning)

	var invalid *apperrors.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
}

func TestCanTransition(t *testing.T) {
	g := newGraph()

	assert.True(t, g.CanTransition(phaseDraft, phaseRunning))
	assert.True(t, g.CanTransition(phaseRunning, phaseRunning))
	assert.False(t, g.CanTransition(phaseAbandoned, phaseRunning))
}

func TestIsTerminal(t *testing.T) {
	g := newGraph()

	assert.False(t, g.IsTerminal(phaseDraft))
	assert.True(t, g.IsTerminal(phaseDone))
	assert.True(t, g.IsTerminal(phaseAbandoned))
}
