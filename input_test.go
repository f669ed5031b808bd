package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActions(t *testing.T) {
	s, err := parseActions([]string{"forward", " Turn-Left ", ""})
	require.NoError(t, err)
	assert.True(t, s.Held(ActionForward))
	assert.True(t, s.Held(ActionTurnLeft))
	assert.False(t, s.Held(ActionBackward))
	assert.False(t, s.Held(ActionQuit))

	_, err = parseActions([]string{"forward", "jump"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	s, err = parseActions(nil)
	require.NoError(t, err)
	assert.Equal(t, InputState{}, s)
}

func TestInputState(t *testing.T) {
	s := InputState{}.With(ActionQuit, true)
	assert.True(t, s.Held(ActionQuit))
	assert.False(t, s.With(ActionQuit, false).Held(ActionQuit))
	assert.True(t, s.Held(ActionQuit), "With returns a copy")

	assert.False(t, s.Held(actionCount))
	assert.False(t, s.Held(-1))
	assert.Equal(t, s, s.With(actionCount, true))
}

func TestActionString(t *testing.T) {
	for a := Action(0); a < actionCount; a++ {
		assert.NotEmpty(t, a.String())
	}
	assert.Equal(t, "near-decrease", ActionNearDecrease.String())
	assert.Equal(t, "action(42)", Action(42).String())
}

func TestScriptedInput(t *testing.T) {
	in := scriptedInput{state: InputState{}.With(ActionForward, true)}
	assert.True(t, in.Poll().Held(ActionForward))
	assert.True(t, in.Poll().Held(ActionForward))
}
