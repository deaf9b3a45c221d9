/*
NAME
  pipeline.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ascii

import (
	"fmt"
	"image"

	"github.com/vcrfx/vcr/manifest"
	"github.com/vcrfx/vcr/value"
)

// Config controls one ASCII pipeline run (§4.8).
type Config struct {
	Cols, Rows   int
	RampLength   int
	EdgeBoost    bool
	BayerDither  bool
	DitherStrength float64 // 0 selects DefaultDitherStrength(RampLength).
	Hysteresis   bool
	HysteresisBand float64 // luma units out of 256, per §4.8 stage 4.
	CellWidth, CellHeight int
	Foreground, Background value.Color
	// SmoothGlyphs opts into Atlas.Render's antialiased perceptual blend
	// instead of stage 5's literal binary opaque/background test.
	SmoothGlyphs bool
}

// State carries the one-frame memory buffer stage 4 needs across calls;
// the zero value is frame 0 (always recomputes) (§4.8 stage 4, §5 shared
// resources).
type State struct {
	prevLuma []float64
	prevIDs  []int
	primed   bool
}

// Hashes reports the stage-level content hashes the determinism envelope
// requires (§4.8 "Determinism envelope"): the luma grid, the mapped
// (glyph-id) grid, and the rendered character grid, each a simple
// deterministic FNV-1a 64 fold over the stage's numeric output.
type Hashes struct {
	Luma    uint64
	Mapped  uint64
	Atlas   uint64
}

type atlasKey struct {
	cellW, cellH, rampLen int
	smooth                bool
}

var atlasCache = map[atlasKey]*Atlas{}

func getAtlas(cellW, cellH, rampLen int, smooth bool) *Atlas {
	key := atlasKey{cellW, cellH, rampLen, smooth}
	if a, ok := atlasCache[key]; ok {
		return a
	}
	a := BuildAtlas(cellW, cellH, rampLen, smooth)
	atlasCache[key] = a
	return a
}

// Run executes stages 1-5 of §4.8 against an already-composited RGBA
// frame, threading st across frames for the hysteresis stage.
func Run(img image.Image, cfg Config, st *State, frame int) (image.Image, Hashes, error) {
	if cfg.Cols <= 0 || cfg.Rows <= 0 {
		return nil, Hashes{}, fmt.Errorf("ascii: cols/rows must be positive")
	}
	if cfg.RampLength <= 0 {
		return nil, Hashes{}, fmt.Errorf("ascii: ramp length must be positive")
	}

	grid := LumaGrid(img, cfg.Cols, cfg.Rows)
	lumaHash := hashFloats(grid.V)

	if cfg.EdgeBoost {
		grid = EdgeBoost(grid)
	}
	if cfg.BayerDither {
		strength := cfg.DitherStrength
		if strength == 0 {
			strength = DefaultDitherStrength(cfg.RampLength)
		}
		grid = OrderedDither(grid, strength)
	}

	ids := make([]int, cfg.Cols*cfg.Rows)
	for i, luma := range grid.V {
		ids[i] = Quantize(luma, cfg.RampLength)
	}

	if cfg.Hysteresis {
		applyHysteresis(st, grid.V, ids, cfg.HysteresisBand, frame)
	}
	st.prevLuma = append([]float64(nil), grid.V...)
	st.prevIDs = append([]int(nil), ids...)
	st.primed = true

	mappedHash := hashInts(ids)

	atlas := getAtlas(cfg.CellWidth, cfg.CellHeight, cfg.RampLength, cfg.SmoothGlyphs)
	out := atlas.Render(ids, cfg.Cols, cfg.Rows, cfg.Foreground, cfg.Background)

	return out, Hashes{Luma: lumaHash, Mapped: mappedHash, Atlas: hashImage(out)}, nil
}

// applyHysteresis implements stage 4: a cell's id is unchanged from the
// previous frame unless the luma moved by more than band/256; frame 0
// always recomputes (guaranteed by st.primed being false then).
func applyHysteresis(st *State, luma []float64, ids []int, band float64, frame int) {
	if frame == 0 || !st.primed || len(st.prevLuma) != len(luma) {
		return
	}
	threshold := band / 256
	for i := range ids {
		if absF(luma[i]-st.prevLuma[i]) <= threshold {
			ids[i] = st.prevIDs[i]
		}
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// RenderLayer renders a manifest ASCII-layer payload directly (the
// "ascii" layer kind rather than the whole-frame post-process mode):
// inline text renders as a literal monospace character grid through the
// same glyph atlas, by ramp-index lookup of each character. RenderLayer
// handles inline text only; a payload without Text (a sequence directory)
// returns an error.
func RenderLayer(ap manifest.ASCIIPayload, canvasW, canvasH int, smoothGlyphs bool) (image.Image, error) {
	if ap.Text == "" {
		return nil, fmt.Errorf("sequence-driven ascii layers require a render-time frame index; use Run directly")
	}
	lines := splitLines(ap.Text)
	rows := len(lines)
	cols := 0
	for _, l := range lines {
		if len(l) > cols {
			cols = len(l)
		}
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("ascii layer text is empty")
	}

	cellW, cellH := ap.CellWidth, ap.CellHeight
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}

	ids := make([]int, cols*rows)
	for y, line := range lines {
		for x := 0; x < cols; x++ {
			var ch rune = ' '
			if x < len(line) {
				ch = rune(line[x])
			}
			ids[y*cols+x] = rampIndex(ch)
		}
	}

	atlas := getAtlas(cellW, cellH, len(ramp), smoothGlyphs)
	return atlas.Render(ids, cols, rows, ap.Foreground, ap.Background), nil
}

// rampIndex maps a literal character to the index of the identical ramp
// glyph, falling back to the sparsest glyph for characters outside the ramp.
func rampIndex(ch rune) int {
	for i, r := range ramp {
		if r == ch {
			return i
		}
	}
	return 0
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
