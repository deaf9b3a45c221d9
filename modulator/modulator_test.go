/*
NAME
  modulator_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package modulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"sine": Sine, "triangle": Triangle, "square": Square,
		"noise": Noise, "ramp": Ramp,
	}
	for s, want := range cases {
		got, ok := ParseKind(s)
		require.True(t, ok, s)
		assert.Equal(t, want, got, s)
	}
	_, ok := ParseKind("sawtooth")
	assert.False(t, ok)
}

func TestSampleSineZeroPhaseAtOrigin(t *testing.T) {
	m := Modulator{Kind: Sine, Frequency: 1, Amplitude: 1}
	assert.InDelta(t, 0, m.Sample(0, 10), 1e-9)
}

func TestSampleSquareWave(t *testing.T) {
	m := Modulator{Kind: Square, Frequency: 1, Amplitude: 1}
	assert.Equal(t, 1.0, m.Sample(0, 4))  // theta=0 -> x=0 -> +1
	assert.Equal(t, -1.0, m.Sample(2, 4)) // theta=pi -> x=0.5 -> -1
}

func TestSampleRampWave(t *testing.T) {
	m := Modulator{Kind: Ramp, Frequency: 1, Amplitude: 1}
	assert.InDelta(t, -1.0, m.Sample(0, 4), 1e-9)
	assert.InDelta(t, -0.5, m.Sample(1, 4), 1e-9)
}

func TestSampleOffsetAndAmplitudeScale(t *testing.T) {
	m := Modulator{Kind: Square, Frequency: 1, Amplitude: 2, Offset: 5}
	assert.Equal(t, 7.0, m.Sample(0, 4)) // offset + amplitude*base(+1)
}

func TestSampleNoiseIsDeterministic(t *testing.T) {
	m := Modulator{Kind: Noise, Seed: 42, Name: "n1"}
	a := m.Sample(7, 30)
	b := m.Sample(7, 30)
	assert.Equal(t, a, b, "same (seed, name, frame) must reproduce the same value")
	assert.GreaterOrEqual(t, a, -1.0)
	assert.LessOrEqual(t, a, 1.0)
}

func TestSampleNoiseVariesWithFrameAndSeed(t *testing.T) {
	m1 := Modulator{Kind: Noise, Seed: 1, Name: "n1"}
	m2 := Modulator{Kind: Noise, Seed: 2, Name: "n1"}
	assert.NotEqual(t, m1.Sample(0, 30), m2.Sample(0, 30), "different seeds must diverge")
	assert.NotEqual(t, m1.Sample(0, 30), m1.Sample(1, 30), "different frames must diverge")
}

func TestSeededXORsNameHash(t *testing.T) {
	a := Seeded(10, "alpha")
	b := Seeded(10, "beta")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Seeded(10, "alpha"), "must be a pure function of (seed, name)")
}

func TestCompositeUnboundedSumsContributions(t *testing.T) {
	bindings := []Binding{
		{Modulator: Modulator{Kind: Square, Frequency: 1, Amplitude: 1}, Weight: 1},
		{Modulator: Modulator{Kind: Square, Frequency: 1, Amplitude: 1}, Weight: 2},
	}
	got := Composite(10, 0, 4, bindings)
	assert.Equal(t, 10.0+1*1+1*2, got)
}

func TestCompositeBoundedClampsToRange(t *testing.T) {
	bindings := []Binding{
		{Modulator: Modulator{Kind: Square, Frequency: 1, Amplitude: 1}, Weight: 100, Bounded: true, Min: 0, Max: 1},
	}
	got := Composite(0.5, 0, 4, bindings)
	assert.Equal(t, 1.0, got, "large positive contribution must clamp to Max")

	gotNeg := Composite(0.5, 2, 4, bindings)
	assert.Equal(t, 0.0, gotNeg, "large negative contribution must clamp to Min")
}

func TestCompositeNoBindingsIsPassthrough(t *testing.T) {
	assert.Equal(t, 3.5, Composite(3.5, 0, 30, nil))
}
