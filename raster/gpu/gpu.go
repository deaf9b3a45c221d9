/*
NAME
  gpu.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package gpu implements the wgpu-backed rasterizer backend (§2 item 7,
// §4.6, §9 "GPU/CPU parity"): the second of the two backends the spec
// requires, producing the same RGBA as the software backend for every
// layer kind with a CPU-reference degrade path.
//
// The device, command submission and readback shape follows §5's
// single-threaded-per-frame model exactly: command buffers are recorded
// sequentially, submitted, and the render loop blocks on readback before
// the next frame — there is no intra-frame parallelism visible to the
// determinism contract.
package gpu

import (
	"context"
	"fmt"
	"image"

	"github.com/gogpu/naga/wgsl"
	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"

	"github.com/vcrfx/vcr/compositor"
	"github.com/vcrfx/vcr/manifest"
	"github.com/vcrfx/vcr/raster/software"
	"github.com/vcrfx/vcr/scene"
	"github.com/vcrfx/vcr/value"
)

// Backend rasterizes evaluated layer states on the GPU. Procedural and
// shader layers run a native WGSL fragment pipeline; image, sequence,
// text and ascii layers delegate source decode and shading to an
// embedded software.Backend (the same decode/cache path §5 names as
// shared, immutable-after-upload) and round-trip the result through a
// GPU texture upload + readback so every layer kind passes through the
// device before compositing.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   hal.Device
	queue    hal.Queue

	// pipelines caches a compiled full-screen-triangle render pipeline per
	// WGSL fragment source. A changing color/uniform per frame means a
	// changing source string, so the cache grows with the number of
	// distinct values seen, not with frame count — fine at this scale,
	// since the spec favors determinism over performance here (§9).
	pipelines map[string]hal.RenderPipeline

	// sw supplies CPU-decoded, CPU-shaded surfaces for layer kinds with no
	// native GPU pipeline in this package (image/sequence/text/ascii), and
	// owns the one-frame ASCII hysteresis memory (§4.8 stage 4, §5).
	sw *software.Backend

	// ASCIIEdgeBoost, ASCIIBayerDither and ASCIISmoothGlyphs mirror the CLI
	// toggles, same as the software backend (§9).
	ASCIIEdgeBoost    bool
	ASCIIBayerDither  bool
	ASCIISmoothGlyphs bool
}

// Open negotiates a wgpu adapter and device. It returns an error (wrapped
// by the caller into vcrerr.MissingDependency) when no adapter is
// available — e.g. a headless runner with no GPU driver — letting
// cmd/vcr fall back to the software backend unless --backend gpu was
// given explicitly (§7).
func Open(ctx context.Context) (*Backend, error) {
	instance := wgpu.CreateInstance(&wgpu.InstanceDescriptor{})

	adapter, err := instance.RequestAdapter(ctx, &wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}

	device, queue, err := adapter.RequestDevice(ctx, &wgpu.DeviceDescriptor{
		Label: "vcr-render-device",
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}

	return &Backend{
		instance:  instance,
		adapter:   adapter,
		device:    device,
		queue:     queue,
		pipelines: make(map[string]hal.RenderPipeline),
		sw:        software.New(),
	}, nil
}

// Name identifies the backend for metadata sidecars (§4.9 backend_name).
func (b *Backend) Name() string { return "gpu" }

// Close releases cached pipelines, the device, the adapter and the
// instance. Safe to call once after the last frame of a run.
func (b *Backend) Close() {
	for _, p := range b.pipelines {
		p.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}

// RasterizeFrame implements render.Backend: one surface per layer, in the
// scene's declared order, each produced by a sequential GPU submit +
// blocking readback (§5).
func (b *Backend) RasterizeFrame(env manifest.Environment, sc *scene.Scene) ([]*compositor.Surface, []string, error) {
	b.sw.ASCIIEdgeBoost = b.ASCIIEdgeBoost
	b.sw.ASCIIBayerDither = b.ASCIIBayerDither
	b.sw.ASCIISmoothGlyphs = b.ASCIISmoothGlyphs

	surfaces := make([]*compositor.Surface, 0, len(sc.Layers))
	reasons := make([]string, 0, len(sc.Layers))
	for _, ls := range sc.Layers {
		surf, reason, err := b.rasterizeOne(env, ls, sc.Frame)
		if err != nil {
			return nil, nil, fmt.Errorf("layer %q: %w", ls.ID, err)
		}
		surf.Mode = compositor.Foreground
		surfaces = append(surfaces, surf)
		reasons = append(reasons, reason)
	}
	return surfaces, reasons, nil
}

func (b *Backend) rasterizeOne(env manifest.Environment, ls scene.LayerState, frame int) (*compositor.Surface, string, error) {
	if !ls.Visible || ls.Opacity <= 0 {
		return emptySurface(env.Width, env.Height, ls.Opacity), "", nil
	}

	switch ls.Layer.Kind {
	case manifest.LayerProcedural:
		return b.renderProcedural(env, ls)
	case manifest.LayerShader:
		return b.renderShader(env, ls, frame)
	case manifest.LayerImage, manifest.LayerSequence, manifest.LayerText, manifest.LayerASCII:
		return b.degradeToSoftware(env, ls, frame)
	case manifest.LayerAsset:
		return emptySurface(env.Width, env.Height, 0), "asset layers require the external media library, not available on this backend", nil
	default:
		return nil, "", fmt.Errorf("unknown layer kind %v", ls.Layer.Kind)
	}
}

func emptySurface(w, h int, opacity float64) *compositor.Surface {
	return &compositor.Surface{Width: w, Height: h, Pix: make([]float64, w*h*4), Opacity: opacity}
}

// degradeToSoftware rasterizes a layer kind with no native GPU shading
// path in this package through the embedded software backend, then
// round-trips the resulting pixels through a GPU texture upload +
// readback so the kind still passes through the device once — matching
// §5's "decoded image textures are immutable after upload; shared by
// reference for the run's lifetime" for the one-time decode, and §4.6's
// allowance that a kind may "degrade to software where the kind declares
// a reference CPU implementation".
func (b *Backend) degradeToSoftware(env manifest.Environment, ls scene.LayerState, frame int) (*compositor.Surface, string, error) {
	single := &scene.Scene{Frame: frame, Layers: []scene.LayerState{ls}}
	surfs, reasons, err := b.sw.RasterizeFrame(env, single)
	if err != nil {
		return nil, "", err
	}
	surf := surfs[0]

	rgba := surfaceToRGBA(surf)
	roundTripped, err := b.uploadAndReadback(rgba)
	if err != nil {
		// Readback failure here is a roundtrip-only concern — the CPU
		// result is already correct, so report it rather than aborting
		// the whole run over a device hiccup (§7 treats an aborted
		// submission as "backend loss", not a reason to fail a layer
		// whose pixels are already known).
		return surf, fmt.Sprintf("gpu roundtrip failed, used CPU result directly: %v", err), nil
	}
	return degradeSurfaceFromRGBA(roundTripped, surf.Opacity), reasons[0], nil
}

// renderProcedural builds a WGSL fragment shader matching §4.6's
// procedural reference exactly (solid color, or mix(color_a, color_b, uv)
// along the declared axis) and executes it as a full-screen triangle.
func (b *Backend) renderProcedural(env manifest.Environment, ls scene.LayerState) (*compositor.Surface, string, error) {
	p := ls.Layer.Procedural
	var src string
	if !p.Gradient {
		src = solidColorWGSL(p.Color)
	} else {
		src = gradientWGSL(p.ColorA, p.ColorB, p.Direction == manifest.Horizontal)
	}

	pix, err := b.runFragment(src, env.Width, env.Height)
	if err != nil {
		return nil, "", fmt.Errorf("procedural: %w", err)
	}
	return premultipliedBytesToSurface(pix, env.Width, env.Height, ls.Opacity), "", nil
}

// renderShader executes the layer's named embedded fragment program
// (plasma, vignette — the same two naming §4.6's "reference CPU
// implementation" allowance covers in the software backend). A
// file-based or unrecognised shader name has no native WGSL source here
// and is skipped with a reason, matching the software backend's same
// limitation so both backends report identically for unsupported names.
func (b *Backend) renderShader(env manifest.Environment, ls scene.LayerState, frame int) (*compositor.Surface, string, error) {
	sp := ls.Layer.Shader
	t := float64(frame) / float64(env.FPS)

	var src string
	switch sp.Name {
	case "plasma":
		src = plasmaWGSL(shaderUniformFloat(sp.Uniforms, "frequency", 1), shaderUniformFloat(sp.Uniforms, "speed", 1), t)
	case "vignette":
		src = vignetteWGSL(shaderUniformFloat(sp.Uniforms, "radius", 0.75), shaderUniformFloat(sp.Uniforms, "softness", 0.45))
	default:
		return emptySurface(env.Width, env.Height, 0),
			fmt.Sprintf("shader %q has no GPU pipeline in this build", sp.Name), nil
	}

	pix, err := b.runFragment(src, env.Width, env.Height)
	if err != nil {
		return nil, "", fmt.Errorf("shader %s: %w", sp.Name, err)
	}
	return premultipliedBytesToSurface(pix, env.Width, env.Height, ls.Opacity), "", nil
}

// shaderUniformFloat reads a numeric uniform by name, falling back to def
// when absent or not a float/int-kinded value, matching the software
// backend's shaderFloat helper.
func shaderUniformFloat(u map[string]value.Value, name string, def float64) float64 {
	v, ok := u[name]
	if !ok || (v.Kind != value.KindFloat && v.Kind != value.KindInt) {
		return def
	}
	return v.Float
}

// runFragment validates src with naga's WGSL front end (§9's "embedded
// fragment program" validation, SPEC_FULL.md's DOMAIN STACK entry for
// github.com/gogpu/naga), compiles (or reuses a cached) full-screen
// render pipeline for it, records a single render pass, submits it, and
// blocks on a buffer readback of the color attachment (§5 suspension
// point (a)). The returned bytes are tightly packed premultiplied RGBA8,
// width*height*4 long.
func (b *Backend) runFragment(fragmentWGSL string, width, height int) ([]byte, error) {
	full := vertexWGSL + fragmentWGSL
	if err := validateWGSL(full); err != nil {
		return nil, fmt.Errorf("wgsl validation: %w", err)
	}

	pipeline, err := b.pipelineFor(full)
	if err != nil {
		return nil, err
	}

	target, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:  "vcr-frame-target",
		Size:   hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		Format: hal.TextureFormatRGBA8Unorm,
		Usage:  hal.TextureUsageRenderAttachment | hal.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create target texture: %w", err)
	}
	defer target.Release()

	view, err := b.device.CreateTextureView(target, &hal.TextureViewDescriptor{})
	if err != nil {
		return nil, fmt.Errorf("create target view: %w", err)
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "vcr-frame-encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     hal.LoadOpClear,
			StoreOp:    hal.StoreOpStore,
			ClearValue: hal.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	rp.SetPipeline(pipeline)
	rp.Draw(3, 1, 0, 0) // full-screen triangle, no vertex buffer needed.
	rp.End()

	rowBytes := width * 4
	readback, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "vcr-readback",
		Size:  uint64(rowBytes * height),
		Usage: hal.BufferUsageMapRead | hal.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create readback buffer: %w", err)
	}
	defer readback.Release()

	encoder.CopyTextureToBuffer(
		&hal.ImageCopyTexture{Texture: target},
		&hal.ImageCopyBuffer{Buffer: readback, Layout: hal.ImageDataLayout{BytesPerRow: uint32(rowBytes)}},
		&hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
	)

	cmd, err := encoder.Finish(&hal.CommandBufferDescriptor{})
	if err != nil {
		return nil, fmt.Errorf("finish command buffer: %w", err)
	}
	b.queue.Submit([]hal.CommandBuffer{cmd})

	// Blocking readback (§5 suspension point (a)): map, copy, unmap before
	// returning, so the caller never observes a partially-written frame.
	if err := readback.MapSync(hal.MapModeRead); err != nil {
		return nil, fmt.Errorf("map readback buffer: %w", err)
	}
	defer readback.Unmap()
	data := readback.GetMappedRange(0, uint64(rowBytes*height))
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (b *Backend) pipelineFor(fullWGSL string) (hal.RenderPipeline, error) {
	if p, ok := b.pipelines[fullWGSL]; ok {
		return p, nil
	}

	shader, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "vcr-fragment",
		Source: hal.ShaderSource{WGSL: fullWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module: %w", err)
	}

	pipeline, err := b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label: "vcr-render-pipeline",
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []hal.ColorTargetState{{
				Format: hal.TextureFormatRGBA8Unorm,
			}},
		},
	})
	shader.Release()
	if err != nil {
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}
	b.pipelines[fullWGSL] = pipeline
	return pipeline, nil
}

// validateWGSL runs the embedded fragment program through naga's WGSL
// lexer/parser/lowering pipeline, matching the DOMAIN STACK entry for
// github.com/gogpu/naga: a syntactically or semantically invalid shader
// is rejected before it ever reaches the device.
func validateWGSL(src string) error {
	lexer := wgsl.NewLexer(src)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return fmt.Errorf("tokenize: %w", err)
	}
	parser := wgsl.NewParser(tokens)
	ast, err := parser.Parse()
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if _, err := wgsl.LowerWithSource(ast, src); err != nil {
		return fmt.Errorf("lower: %w", err)
	}
	return nil
}

// surfaceToRGBA premultiplies a compositor.Surface's straight-alpha
// floats into 8-bit premultiplied RGBA for GPU upload.
func surfaceToRGBA(s *compositor.Surface) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			i := (y*s.Width + x) * 4
			r, g, bch, a := s.Pix[i], s.Pix[i+1], s.Pix[i+2], s.Pix[i+3]
			o := img.PixOffset(x, y)
			img.Pix[o] = clamp255(r * a)
			img.Pix[o+1] = clamp255(g * a)
			img.Pix[o+2] = clamp255(bch * a)
			img.Pix[o+3] = clamp255(a)
		}
	}
	return img
}

// premultipliedBytesToSurface un-premultiplies a tightly packed RGBA8
// readback buffer back into a compositor.Surface's straight-alpha floats.
func premultipliedBytesToSurface(pix []byte, width, height int, opacity float64) *compositor.Surface {
	surf := emptySurface(width, height, opacity)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := (y*width + x) * 4
			a := float64(pix[o+3]) / 255
			i := o
			if a == 0 {
				continue
			}
			surf.Pix[i] = float64(pix[o]) / 255 / a
			surf.Pix[i+1] = float64(pix[o+1]) / 255 / a
			surf.Pix[i+2] = float64(pix[o+2]) / 255 / a
			surf.Pix[i+3] = a
		}
	}
	return surf
}

// degradeSurfaceFromRGBA rebuilds a compositor.Surface from a readback
// *image.RGBA, un-premultiplying back to straight color.
func degradeSurfaceFromRGBA(img *image.RGBA, opacity float64) *compositor.Surface {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	return premultipliedBytesToSurface(img.Pix, w, h, opacity)
}

func clamp255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// uploadAndReadback uploads img to a GPU texture and reads it back
// unchanged, exercising the device's texture upload + copy-to-buffer
// path for layer kinds whose shading is computed on the CPU (§5's
// "decoded image textures are immutable after upload").
func (b *Backend) uploadAndReadback(img *image.RGBA) (*image.RGBA, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:  "vcr-layer-source",
		Size:   hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format: hal.TextureFormatRGBA8Unorm,
		Usage:  hal.TextureUsageCopyDst | hal.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create source texture: %w", err)
	}
	defer tex.Release()

	b.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex},
		img.Pix,
		&hal.ImageDataLayout{BytesPerRow: uint32(w * 4)},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)

	rowBytes := w * 4
	readback, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "vcr-upload-readback",
		Size:  uint64(rowBytes * h),
		Usage: hal.BufferUsageMapRead | hal.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create readback buffer: %w", err)
	}
	defer readback.Release()

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "vcr-upload-encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	encoder.CopyTextureToBuffer(
		&hal.ImageCopyTexture{Texture: tex},
		&hal.ImageCopyBuffer{Buffer: readback, Layout: hal.ImageDataLayout{BytesPerRow: uint32(rowBytes)}},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
	cmd, err := encoder.Finish(&hal.CommandBufferDescriptor{})
	if err != nil {
		return nil, fmt.Errorf("finish command buffer: %w", err)
	}
	b.queue.Submit([]hal.CommandBuffer{cmd})

	if err := readback.MapSync(hal.MapModeRead); err != nil {
		return nil, fmt.Errorf("map readback buffer: %w", err)
	}
	defer readback.Unmap()
	data := readback.GetMappedRange(0, uint64(rowBytes*h))

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(out.Pix, data)
	return out, nil
}
