/*
NAME
  scene_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcrfx/vcr/manifest"
)

func TestEvaluateKeyframeMidpoint(t *testing.T) {
	m := `
environment:
  resolution: {width: 100, height: 100}
  fps: 10
  duration: {frames: 11}
layers:
  - id: mover
    position:
      start_frame: 0
      end_frame: 10
      from: {x: 0, y: 0}
      to: {x: 100, y: 0}
      easing: linear
    procedural:
      color: {r: 1, g: 1, b: 1, a: 1}
`
	r, err := manifest.LoadText(m, "/tmp")
	require.NoError(t, err)

	s, err := Evaluate(r, 5)
	require.NoError(t, err)
	require.Len(t, s.Layers, 1)
	assert.InDelta(t, 50.0, s.Layers[0].Position.X, 1e-9)
}

func TestEvaluateRejectsOutOfRangeFrame(t *testing.T) {
	m := `
environment:
  resolution: {width: 10, height: 10}
  fps: 1
  duration: {frames: 1}
layers:
  - id: bg
    procedural: {color: {r: 1, g: 0, b: 0, a: 1}}
`
	r, err := manifest.LoadText(m, "/tmp")
	require.NoError(t, err)

	_, err = Evaluate(r, 5)
	assert.Error(t, err)
}

func TestEvaluateVisibilitySchedule(t *testing.T) {
	m := `
environment:
  resolution: {width: 10, height: 10}
  fps: 1
  duration: {frames: 5}
layers:
  - id: bg
    visibility: [{start: 2, end: 3}]
    procedural: {color: {r: 1, g: 0, b: 0, a: 1}}
`
	r, err := manifest.LoadText(m, "/tmp")
	require.NoError(t, err)

	s0, err := Evaluate(r, 0)
	require.NoError(t, err)
	assert.False(t, s0.Layers[0].Visible)

	s2, err := Evaluate(r, 2)
	require.NoError(t, err)
	assert.True(t, s2.Layers[0].Visible)
}
