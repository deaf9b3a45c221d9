/*
NAME
  common.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"fmt"

	"github.com/vcrfx/vcr/manifest"
	"github.com/vcrfx/vcr/render"
	"github.com/vcrfx/vcr/vcrerr"
)

func loadManifest(path string, sets []string) (*manifest.Resolved, error) {
	r, err := manifest.Load(path, sets)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func newRenderer(r *manifest.Resolved) (*render.Renderer, string, string, error) {
	backend, reason, err := selectBackend()
	if err != nil {
		return nil, "", "", err
	}
	rd := render.New(r, backend)
	rd.Logger = logger
	return rd, backend.Name(), reason, nil
}

// resolveWindow turns start/end/frames flags into a render.Window,
// rejecting conflicting combinations (§6: usage error on conflicting
// window flags).
func resolveWindow(env manifest.Environment, start int, end, frames int, endSet, framesSet bool) (render.Window, error) {
	if endSet && framesSet {
		return render.Window{}, vcrerr.New(vcrerr.Usage, "window", "--end-frame and --frames are mutually exclusive")
	}
	if start < 0 || start >= env.FrameCount {
		return render.Window{}, vcrerr.New(vcrerr.Usage, "window", fmt.Sprintf("start-frame %d out of range [0,%d)", start, env.FrameCount))
	}
	switch {
	case framesSet:
		if frames < 1 {
			return render.Window{}, vcrerr.New(vcrerr.Usage, "window", "--frames must be at least 1")
		}
		return render.Window{Start: start, Count: frames}, nil
	case endSet:
		if end < start {
			return render.Window{}, vcrerr.New(vcrerr.Usage, "window", "--end-frame must be >= --start-frame")
		}
		return render.Window{Start: start, Count: end - start + 1}, nil
	default:
		return render.Window{Start: start, Count: env.FrameCount - start}, nil
	}
}
