/*
NAME
  run.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package render

import (
	"fmt"
	"path/filepath"

	"github.com/vcrfx/vcr/encoder"
	"github.com/vcrfx/vcr/manifest"
	"github.com/vcrfx/vcr/vcrerr"
)

// Window is an inclusive-start, count-bounded frame range: [Start, Start+Count).
type Window struct {
	Start int
	Count int
}

// End returns the window's inclusive end-frame index.
func (w Window) End() int { return w.Start + w.Count - 1 }

// RunVideo renders every frame in window through rd and writes it to
// sink in strict ascending order (§5's ordering guarantee). onFrame, if
// non-nil, is called after each frame is written with the number of
// frames written so far (1 after the first) and the window's total frame
// count.
func RunVideo(rd *Renderer, sink *encoder.VideoSink, window Window, onFrame func(done, total int)) error {
	for f := window.Start; f <= window.End(); f++ {
		frameBytes, _, err := rd.RenderStraightBytes(f)
		if err != nil {
			return err
		}
		if err := sink.WriteFrame(frameBytes); err != nil {
			return vcrerr.Wrap(vcrerr.IO, fmt.Sprintf("frame %d", f), err)
		}
		if onFrame != nil {
			onFrame(f-window.Start+1, window.Count)
		}
	}
	return sink.Close()
}

// RunPNGSequence renders every frame in window through rd and writes
// one PNG per frame into outDir, named frame_%06d.png.
func RunPNGSequence(rd *Renderer, outDir string, window Window, onFrame func(done, total int)) error {
	for f := window.Start; f <= window.End(); f++ {
		img, _, err := rd.RenderFrame(f)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, fmt.Sprintf("frame_%06d.png", f))
		if err := encoder.WritePNG(path, img); err != nil {
			return vcrerr.Wrap(vcrerr.IO, fmt.Sprintf("frame %d", f), err)
		}
		if onFrame != nil {
			onFrame(f-window.Start+1, window.Count)
		}
	}
	return nil
}

// RunSinglePNG renders one frame through rd and writes it to path.
func RunSinglePNG(rd *Renderer, path string, frame int) error {
	img, _, err := rd.RenderFrame(frame)
	if err != nil {
		return err
	}
	if err := encoder.WritePNG(path, img); err != nil {
		return vcrerr.Wrap(vcrerr.IO, "png", err)
	}
	return nil
}

// BuildMetadata assembles the §4.9 sidecar document for one render run.
// backendReason explains a backend fallback (empty when the requested
// backend was used as-is); per-layer skip reasons are a separate,
// frame-local diagnostic (returned by RenderFrame/RasterizeFrame) and
// are not folded into this single top-level field.
func BuildMetadata(r *manifest.Resolved, toolVersion, backendName, backendReason string, window Window) encoder.Metadata {
	artifactHash := manifest.ArtifactHash(r.Hash, r.Params, r.Overrides, window.Start, window.Count)
	return encoder.Metadata{
		ManifestHash:         fmt.Sprintf("0x%016x", artifactHash),
		ResolvedManifestHash: fmt.Sprintf("0x%016x", r.Hash),
		ToolVersion:          toolVersion,
		BackendName:          backendName,
		BackendReason:        backendReason,
		Resolution:           encoder.Resolution{Width: r.Environment.Width, Height: r.Environment.Height},
		FPS:                  r.Environment.FPS,
		FrameCount:           window.Count,
		StartFrame:           window.Start,
		EndFrame:             window.End(),
		ResolvedParams:       encoder.ValuesToJSON(r.Params),
		Overrides:            encoder.ValuesToJSON(r.Overrides),
	}
}
