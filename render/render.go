/*
NAME
  render.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package render orchestrates the per-frame pipeline: scene evaluation,
// layer rasterization, compositing, optional whole-frame ASCII
// post-processing, and delivery to an encoder sink (§2 steps 6-10).
package render

import (
	"fmt"
	"hash/fnv"
	"image"

	"github.com/ausocean/utils/logging"

	"github.com/vcrfx/vcr/ascii"
	"github.com/vcrfx/vcr/compositor"
	"github.com/vcrfx/vcr/manifest"
	"github.com/vcrfx/vcr/raster/software"
	"github.com/vcrfx/vcr/scene"
	"github.com/vcrfx/vcr/vcrerr"
)

// Backend is the subset of raster.Backend the renderer depends on,
// satisfied by both the software backend and the raster/gpu backend
// (§4.6).
type Backend interface {
	Name() string
	RasterizeFrame(env manifest.Environment, sc *scene.Scene) ([]*compositor.Surface, []string, error)
}

// ASCIIPostProcess, when non-nil on a Renderer, runs the §4.8 pipeline
// against the fully composited frame rather than (or in addition to)
// any per-layer ascii variant — the spec's "as a post-process after
// compositing" mode (§4.8). There is no manifest or CLI key naming this
// mode in §6, so it is wired as a Renderer-level option a caller opts
// into explicitly, not a manifest field.
type ASCIIPostProcess struct {
	Config ascii.Config
	State  *ascii.State
}

// Renderer ties manifest, scene, raster and compositor packages together
// into the per-frame pipeline a CLI subcommand or encoder loop drives.
type Renderer struct {
	Resolved *manifest.Resolved
	Backend  Backend
	ASCII    *ASCIIPostProcess

	// Logger receives one entry per non-empty per-layer skip/degrade
	// reason a backend reports (§4.6's degrade-or-skip-with-reason
	// contract), matching the teacher's LogInvalidField("bad or unset,
	// defaulting") pattern of logging *why*, not just silently dropping
	// the frame content. Nil is a valid zero value: a discard logger.
	Logger logging.Logger
}

// New builds a Renderer for an already-resolved manifest using the
// software backend unless backend is supplied.
func New(r *manifest.Resolved, backend Backend) *Renderer {
	if backend == nil {
		backend = software.New()
	}
	return &Renderer{Resolved: r, Backend: backend}
}

// logReasons reports every non-empty per-layer backend reason for frame,
// pairing each with the layer ID that produced it so the log entry is
// actionable (§4.6, §9's per-layer diagnostic requirement). A no-op when
// Logger is nil.
func (rd *Renderer) logReasons(frame int, sc *scene.Scene, reasons []string) {
	if rd.Logger == nil {
		return
	}
	for i, reason := range reasons {
		if reason == "" {
			continue
		}
		layerID := "?"
		if i < len(sc.Layers) {
			layerID = sc.Layers[i].ID
		}
		rd.Logger.Warning("layer skipped or degraded", "frame", frame, "layer", layerID, "reason", reason)
	}
}

// Close releases the backend's resources if it holds any (the GPU
// backend's device/adapter/instance; the software backend needs no
// cleanup). Safe to call once after the last frame of a run.
func (rd *Renderer) Close() {
	if c, ok := rd.Backend.(interface{ Close() }); ok {
		c.Close()
	}
}

// RenderFrame evaluates, rasterizes, composites, and (if configured)
// ASCII-post-processes frame, returning the canvas-resolution RGBA
// image and the per-layer skip reasons reported by the backend.
func (rd *Renderer) RenderFrame(frame int) (*image.RGBA, []string, error) {
	env := rd.Resolved.Environment
	if frame < 0 || frame >= env.FrameCount {
		return nil, nil, vcrerr.New(vcrerr.Usage, "frame", fmt.Sprintf("frame %d out of range [0,%d)", frame, env.FrameCount))
	}

	sc, err := scene.Evaluate(rd.Resolved, frame)
	if err != nil {
		return nil, nil, vcrerr.Wrap(vcrerr.Runtime, fmt.Sprintf("frame %d", frame), err)
	}

	surfaces, reasons, err := rd.Backend.RasterizeFrame(env, sc)
	if err != nil {
		return nil, nil, vcrerr.Wrap(vcrerr.Runtime, fmt.Sprintf("frame %d", frame), err)
	}
	rd.logReasons(frame, sc, reasons)

	canvas := compositor.NewCanvas(env.Width, env.Height)
	compositor.Composite(canvas, surfaces)
	out := compositor.ToRGBA(canvas)

	if rd.ASCII != nil {
		processed, _, err := ascii.Run(out, rd.ASCII.Config, rd.ASCII.State, frame)
		if err != nil {
			return nil, nil, vcrerr.Wrap(vcrerr.Runtime, fmt.Sprintf("frame %d ascii post-process", frame), err)
		}
		out = toRGBA(processed)
	}

	return out, reasons, nil
}

// RenderStraightBytes renders frame and returns its straight-alpha raw
// RGBA bytes, the wire format the encoder sink expects (§4.9).
func (rd *Renderer) RenderStraightBytes(frame int) ([]byte, []string, error) {
	env := rd.Resolved.Environment
	if frame < 0 || frame >= env.FrameCount {
		return nil, nil, vcrerr.New(vcrerr.Usage, "frame", fmt.Sprintf("frame %d out of range [0,%d)", frame, env.FrameCount))
	}

	sc, err := scene.Evaluate(rd.Resolved, frame)
	if err != nil {
		return nil, nil, vcrerr.Wrap(vcrerr.Runtime, fmt.Sprintf("frame %d", frame), err)
	}
	surfaces, reasons, err := rd.Backend.RasterizeFrame(env, sc)
	if err != nil {
		return nil, nil, vcrerr.Wrap(vcrerr.Runtime, fmt.Sprintf("frame %d", frame), err)
	}
	rd.logReasons(frame, sc, reasons)

	canvas := compositor.NewCanvas(env.Width, env.Height)
	compositor.Composite(canvas, surfaces)

	if rd.ASCII != nil {
		rgba := compositor.ToRGBA(canvas)
		processed, _, err := ascii.Run(rgba, rd.ASCII.Config, rd.ASCII.State, frame)
		if err != nil {
			return nil, nil, vcrerr.Wrap(vcrerr.Runtime, fmt.Sprintf("frame %d ascii post-process", frame), err)
		}
		return straightBytesFromImage(processed), reasons, nil
	}

	return compositor.ToStraightBytes(canvas), reasons, nil
}

// FrameContentHash renders frame and returns an FNV-1a 64 digest of its
// straight-alpha bytes, the single-frame content hash the
// determinism-report CLI subcommand surfaces (§6, §8 scenario F).
func (rd *Renderer) FrameContentHash(frame int) (uint64, error) {
	b, _, err := rd.RenderStraightBytes(frame)
	if err != nil {
		return 0, err
	}
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64(), nil
}

// toRGBA re-quantizes an arbitrary image.Image (the ASCII atlas's NRGBA
// output) into *image.RGBA so downstream callers have one concrete type.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

func straightBytesFromImage(img image.Image) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*4)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				i += 4
				continue
			}
			out[i] = byte((r * 255 / a))
			out[i+1] = byte((g * 255 / a))
			out[i+2] = byte((bl * 255 / a))
			out[i+3] = byte(a >> 8)
			i += 4
		}
	}
	return out
}
