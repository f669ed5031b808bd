package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 50 ticks per second keeps every fraction used below exact in binary.
const testTPS = 50

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func countTicks(n *int) func(float64) error {
	return func(float64) error {
		*n++
		return nil
	}
}

func TestFramePacer_ConservesOwedTicks(t *testing.T) {
	p := newFramePacer(testTPS, fixedPacing{delta: 1}, epoch)
	now := epoch
	ticks := 0

	elapsed := []time.Duration{
		5 * time.Millisecond, 5 * time.Millisecond, 5 * time.Millisecond, 5 * time.Millisecond,
		5 * time.Millisecond, 5 * time.Millisecond, 5 * time.Millisecond, 5 * time.Millisecond,
		30 * time.Millisecond, 10 * time.Millisecond,
		100 * time.Millisecond,
	}
	for _, d := range elapsed {
		now = now.Add(d)
		_, err := p.Step(now, countTicks(&ticks))
		require.NoError(t, err)
	}
	// Drain the backlog with zero-elapsed steps.
	for i := 0; i < 20; i++ {
		_, err := p.Step(now, countTicks(&ticks))
		require.NoError(t, err)
	}

	assert.Equal(t, 9, ticks)
	assert.Equal(t, 0.0, p.accumulator)
}

func TestFramePacer_AtMostOneTickPerStep(t *testing.T) {
	p := newFramePacer(testTPS, fixedPacing{delta: 1}, epoch)
	ticks := 0

	res, err := p.Step(epoch.Add(100*time.Millisecond), countTicks(&ticks))
	require.NoError(t, err)
	assert.True(t, res.ticked)
	assert.Equal(t, 1, ticks)
	assert.Equal(t, 4.0, p.accumulator)

	res, err = p.Step(epoch.Add(100*time.Millisecond), countTicks(&ticks))
	require.NoError(t, err)
	assert.True(t, res.ticked)
	assert.Equal(t, 3.0, p.accumulator)
}

func TestFramePacer_NoTickUntilOwed(t *testing.T) {
	p := newFramePacer(testTPS, fixedPacing{delta: 1}, epoch)
	ticks := 0

	res, err := p.Step(epoch.Add(10*time.Millisecond), countTicks(&ticks))
	require.NoError(t, err)
	assert.False(t, res.ticked)
	assert.Zero(t, ticks)
	assert.Equal(t, 0.5, p.accumulator)
}

func TestFramePacer_NegativeElapsedIsIgnored(t *testing.T) {
	p := newFramePacer(testTPS, fixedPacing{delta: 1}, epoch)
	ticks := 0

	_, err := p.Step(epoch.Add(-time.Second), countTicks(&ticks))
	require.NoError(t, err)
	assert.Zero(t, ticks)
	assert.Equal(t, 0.0, p.accumulator)
	assert.Zero(t, p.timer)
}

func TestFramePacer_ReportsOncePerSecond(t *testing.T) {
	p := newFramePacer(testTPS, adaptivePacing{scale: 25}, epoch)
	assert.InDelta(t, 0.5, p.Delta(), 1e-15, "initial delta assumes the target rate")

	now := epoch
	reports := 0
	for i := 1; i <= 60; i++ {
		now = now.Add(20 * time.Millisecond)
		res, err := p.Step(now, func(float64) error { return nil })
		require.NoError(t, err)
		if res.reported {
			reports++
			assert.Equal(t, 50, i)
			assert.Equal(t, 50, res.fps)
		}
	}
	assert.Equal(t, 1, reports)
	assert.Equal(t, 50, p.LastFPS())
	assert.Equal(t, 10, p.frames)
	assert.Equal(t, 200*time.Millisecond, p.timer)
}

func TestFramePacer_AdaptiveDeltaFollowsThroughput(t *testing.T) {
	p := newFramePacer(testTPS, adaptivePacing{scale: 25}, epoch)
	now := epoch

	// Only 25 frames fit into the window when each step takes 40ms.
	var last pacerStep
	for i := 0; i < 25; i++ {
		now = now.Add(40 * time.Millisecond)
		res, err := p.Step(now, func(float64) error { return nil })
		require.NoError(t, err)
		last = res
	}
	require.True(t, last.reported)
	assert.Equal(t, 25, last.fps)
	assert.InDelta(t, 1.0, last.delta, 1e-15)
	assert.InDelta(t, 1.0, p.Delta(), 1e-15)
}

func TestFramePacer_TickUsesCurrentDelta(t *testing.T) {
	p := newFramePacer(testTPS, fixedPacing{delta: 0.75}, epoch)
	var got float64
	_, err := p.Step(epoch.Add(20*time.Millisecond), func(d float64) error {
		got = d
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0.75, got)
}

func TestFramePacer_FrameErrorStops(t *testing.T) {
	p := newFramePacer(testTPS, fixedPacing{delta: 1}, epoch)
	boom := errors.New("boom")

	_, err := p.Step(epoch.Add(20*time.Millisecond), func(float64) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.False(t, p.Running())

	ticks := 0
	res, err := p.Step(epoch.Add(time.Second), countTicks(&ticks))
	require.NoError(t, err)
	assert.False(t, res.ticked)
	assert.Zero(t, ticks)
}

func TestAdaptivePacing(t *testing.T) {
	a := adaptivePacing{scale: 25}
	assert.InDelta(t, 25.0/72.0, a.initial(72), 1e-15)
	assert.InDelta(t, 0.25, a.next(100, 9), 1e-15)
	assert.Equal(t, 9.0, a.next(0, 9), "an empty window keeps the previous delta")
}

func TestFixedPacing(t *testing.T) {
	f := fixedPacing{delta: 0.3}
	assert.Equal(t, 0.3, f.initial(72))
	assert.Equal(t, 0.3, f.next(1, 5))
	assert.Equal(t, 0.3, f.next(0, 5))
}

func TestNewPacingPolicy(t *testing.T) {
	p, err := newPacingPolicy("", 25, 0.5)
	require.NoError(t, err)
	assert.Equal(t, adaptivePacing{scale: 25}, p)

	p, err = newPacingPolicy("Fixed", 25, 0.5)
	require.NoError(t, err)
	assert.Equal(t, fixedPacing{delta: 0.5}, p)

	_, err = newPacingPolicy("turbo", 25, 0.5)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
