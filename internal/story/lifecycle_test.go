package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_HappyPath(t *testing.T) {
	l, err := NewLifecycle()
	require.NoError(t, err)
	defer l.Stop()

	assert.Equal(t, PhaseIntroduced, l.Phase())
	require.NoError(t, l.Send(EventSubmit))
	assert.Equal(t, PhaseEvaluating, l.Phase())
	require.NoError(t, l.Send(EventMatch))
	assert.Equal(t, PhaseSatisfied, l.Phase())
	require.NoError(t, l.Send(EventVerified))
	assert.Equal(t, PhaseCompleted, l.Phase())
	assert.Equal(t, 1, l.Submissions())
}

func TestLifecycle_MissReturnsToIntroduced(t *testing.T) {
	l, err := NewLifecycle()
	require.NoError(t, err)
	defer l.Stop()

	require.NoError(t, l.Send(EventSubmit))
	require.NoError(t, l.Send(EventMiss))
	assert.Equal(t, PhaseIntroduced, l.Phase())

	require.NoError(t, l.Send(EventSubmit))
	require.NoError(t, l.Send(EventEdit))
	assert.Equal(t, PhaseEditing, l.Phase())
	require.NoError(t, l.Send(EventMiss))
	assert.Equal(t, PhaseIntroduced, l.Phase())
	assert.Equal(t, 2, l.Submissions())
}

func TestLifecycle_RejectsInvalidEvent(t *testing.T) {
	l, err := NewLifecycle()
	require.NoError(t, err)
	defer l.Stop()

	assert.ErrorIs(t, l.Send(EventVerified), ErrBadTransition)
	assert.Equal(t, PhaseIntroduced, l.Phase())
}
