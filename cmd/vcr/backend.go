/*
NAME
  backend.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"context"

	"github.com/vcrfx/vcr/raster/gpu"
	"github.com/vcrfx/vcr/raster/software"
	"github.com/vcrfx/vcr/render"
	"github.com/vcrfx/vcr/vcrerr"
)

// selectBackend resolves the --backend flag to a concrete render.Backend.
// "gpu" opens a wgpu device explicitly, failing with a missing-dependency
// error if no adapter is available. "auto" tries the GPU device and
// silently falls back to software with a recorded reason on failure (§7:
// "Backend initialization failures for GPU fall back to software unless
// --backend gpu is explicit").
func selectBackend() (render.Backend, string, error) {
	sw := software.New()
	sw.ASCIIEdgeBoost = asciiToggle(flagEdgeBoost)
	sw.ASCIIBayerDither = asciiToggle(flagBayerDither)
	sw.ASCIISmoothGlyphs = asciiToggle(flagSmoothGlyphs)

	switch flagBackend {
	case "software":
		return sw, "", nil
	case "", "auto":
		gb, err := gpu.Open(context.Background())
		if err != nil {
			return sw, "GPU backend unavailable (" + err.Error() + "); using software renderer", nil
		}
		gb.ASCIIEdgeBoost = sw.ASCIIEdgeBoost
		gb.ASCIIBayerDither = sw.ASCIIBayerDither
		gb.ASCIISmoothGlyphs = sw.ASCIISmoothGlyphs
		return gb, "", nil
	case "gpu":
		gb, err := gpu.Open(context.Background())
		if err != nil {
			return nil, "", vcrerr.Wrap(vcrerr.MissingDependency, "backend", err)
		}
		gb.ASCIIEdgeBoost = sw.ASCIIEdgeBoost
		gb.ASCIIBayerDither = sw.ASCIIBayerDither
		gb.ASCIISmoothGlyphs = sw.ASCIISmoothGlyphs
		return gb, "", nil
	default:
		return nil, "", vcrerr.New(vcrerr.Usage, "backend", "unknown backend "+flagBackend+" (want auto, software, or gpu)")
	}
}
