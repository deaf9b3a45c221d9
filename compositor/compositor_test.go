/*
NAME
  compositor_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package compositor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func solidSurface(w, h int, r, g, b, a, opacity float64) *Surface {
	pix := make([]float64, w*h*4)
	for i := 0; i < w*h; i++ {
		pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = r, g, b, a
	}
	return &Surface{Width: w, Height: h, Pix: pix, Opacity: opacity, Mode: Foreground}
}

func TestScenarioA_OpaqueRedOverTransparent(t *testing.T) {
	c := NewCanvas(2, 2)
	Composite(c, []*Surface{solidSurface(2, 2, 1, 0, 0, 1, 1)})
	img := ToRGBA(c)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			assert.Equal(t, uint32(255*257), r)
			assert.Equal(t, uint32(0), g)
			assert.Equal(t, uint32(0), b)
			assert.Equal(t, uint32(255*257), a)
		}
	}
}

func TestScenarioB_HalfAlphaWhite(t *testing.T) {
	c := NewCanvas(1, 1)
	Composite(c, []*Surface{solidSurface(1, 1, 1, 1, 1, 0.5, 1)})
	img := ToRGBA(c)
	i := img.PixOffset(0, 0)
	assert.InDelta(t, 128, int(img.Pix[i]), 1)
	assert.InDelta(t, 128, int(img.Pix[i+1]), 1)
	assert.InDelta(t, 128, int(img.Pix[i+2]), 1)
	assert.InDelta(t, 128, int(img.Pix[i+3]), 1)
}

func TestScenarioC_RedUnderGreenHalfOpacity(t *testing.T) {
	c := NewCanvas(1, 1)
	red := solidSurface(1, 1, 1, 0, 0, 1, 1)
	green := solidSurface(1, 1, 0, 1, 0, 1, 0.5)
	Composite(c, []*Surface{red, green})
	img := ToRGBA(c)
	i := img.PixOffset(0, 0)
	assert.InDelta(t, 128, int(img.Pix[i]), 1)
	assert.InDelta(t, 128, int(img.Pix[i+1]), 1)
	assert.InDelta(t, 0, int(img.Pix[i+2]), 1)
	assert.InDelta(t, 255, int(img.Pix[i+3]), 1)
}

func TestCompositorIdentity_TransparentSourceLeavesDestinationUnchanged(t *testing.T) {
	c := NewCanvas(1, 1)
	Composite(c, []*Surface{solidSurface(1, 1, 1, 0, 0, 1, 1)})
	before := ToRGBA(c)

	Composite(c, []*Surface{solidSurface(1, 1, 0, 1, 0, 0, 1)})
	after := ToRGBA(c)

	bi, ai := before.PixOffset(0, 0), after.PixOffset(0, 0)
	for k := 0; k < 4; k++ {
		assert.InDelta(t, int(before.Pix[bi+k]), int(after.Pix[ai+k]), 1)
	}
}
