package main

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Action is a logical input the loop reacts to.
type Action int

const (
	ActionForward Action = iota
	ActionBackward
	ActionTurnLeft
	ActionTurnRight
	ActionQuit

	// Debug tuning of the floor plane distances.
	ActionFarIncrease
	ActionFarDecrease
	ActionNearIncrease
	ActionNearDecrease

	actionCount
)

var actionNames = [actionCount]string{
	ActionForward:      "forward",
	ActionBackward:     "backward",
	ActionTurnLeft:     "turn-left",
	ActionTurnRight:    "turn-right",
	ActionQuit:         "quit",
	ActionFarIncrease:  "far-increase",
	ActionFarDecrease:  "far-decrease",
	ActionNearIncrease: "near-increase",
	ActionNearDecrease: "near-decrease",
}

func (a Action) String() string {
	if a >= 0 && a < actionCount {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// InputState is a snapshot of which actions are held during one iteration.
type InputState struct {
	held [actionCount]bool
}

// Held reports whether a is held.
func (s InputState) Held(a Action) bool {
	if a < 0 || a >= actionCount {
		return false
	}
	return s.held[a]
}

// With returns a copy of s with a set to held.
func (s InputState) With(a Action, held bool) InputState {
	if a >= 0 && a < actionCount {
		s.held[a] = held
	}
	return s
}

// parseActions builds an InputState from action names such as "forward".
func parseActions(names []string) (InputState, error) {
	var s InputState
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		found := false
		for a := Action(0); a < actionCount; a++ {
			if actionNames[a] == name {
				s = s.With(a, true)
				found = true
				break
			}
		}
		if !found {
			return InputState{}, fmt.Errorf("%w: unknown action %q", ErrInvalidConfig, raw)
		}
	}
	return s, nil
}

// inputSource drains pending input and returns the current held state. Poll
// must not block.
type inputSource interface {
	Poll() InputState
}

// scriptedInput replays the same held state every poll.
type scriptedInput struct {
	state InputState
}

func (s scriptedInput) Poll() InputState { return s.state }

// keyboardInput reads the ebiten keyboard. Tuning keys are only reported when
// tuning is enabled.
type keyboardInput struct {
	tuning bool
}

var keyBindings = []struct {
	action Action
	keys   []ebiten.Key
}{
	{ActionForward, []ebiten.Key{ebiten.KeyW}},
	{ActionBackward, []ebiten.Key{ebiten.KeyS}},
	{ActionTurnLeft, []ebiten.Key{ebiten.KeyA}},
	{ActionTurnRight, []ebiten.Key{ebiten.KeyD}},
	{ActionQuit, []ebiten.Key{ebiten.KeyEscape}},
}

var tuningBindings = []struct {
	action Action
	key    ebiten.Key
}{
	{ActionFarIncrease, ebiten.KeyArrowUp},
	{ActionFarDecrease, ebiten.KeyArrowDown},
	{ActionNearIncrease, ebiten.KeyArrowRight},
	{ActionNearDecrease, ebiten.KeyArrowLeft},
}

func (k keyboardInput) Poll() InputState {
	var s InputState
	for _, b := range keyBindings {
		for _, key := range b.keys {
			if ebiten.IsKeyPressed(key) {
				s = s.With(b.action, true)
			}
		}
	}
	if ebiten.IsWindowBeingClosed() {
		s = s.With(ActionQuit, true)
	}
	if k.tuning {
		for _, b := range tuningBindings {
			if ebiten.IsKeyPressed(b.key) {
				s = s.With(b.action, true)
			}
		}
	}
	return s
}
