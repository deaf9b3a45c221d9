/*
NAME
  validate.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package manifest

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/vcrfx/vcr/property"
	"github.com/vcrfx/vcr/vcrerr"
)

// validate checks every structural invariant of a decoded manifest that
// cannot be enforced purely by the decoder (§3 invariants, §4.4 step 8):
// positive dims/fps, a positive duration, unique layer ids, resolvable
// group references, safe paths, sane keyframe ranges and finite property
// values across the whole frame range.
func validate(env Environment, groups map[string]bool, layers []Layer, dir string) error {
	if env.Width <= 0 || env.Height <= 0 {
		return vcrerr.New(vcrerr.Validation, "environment.resolution", "width and height must be positive")
	}
	if env.FPS <= 0 {
		return vcrerr.New(vcrerr.Validation, "environment.fps", "must be positive")
	}
	if env.FrameCount <= 0 {
		return vcrerr.New(vcrerr.Validation, "environment.duration", "must resolve to at least one frame")
	}

	seen := make(map[string]bool, len(layers))
	for _, l := range layers {
		if seen[l.ID] {
			return vcrerr.New(vcrerr.Validation, "layers."+l.ID, "duplicate layer id")
		}
		seen[l.ID] = true

		if l.Group != "" && !groups[l.Group] {
			return vcrerr.New(vcrerr.Validation, "layers."+l.ID+".group", "references undeclared group \""+l.Group+"\"")
		}

		if err := validatePaths(l, dir); err != nil {
			return vcrerr.Wrap(vcrerr.Validation, "layers."+l.ID, err)
		}

		if err := validateKeyframeRanges(l, env.FrameCount); err != nil {
			return vcrerr.Wrap(vcrerr.Validation, "layers."+l.ID, err)
		}

		if err := probeFinite(l, env.FrameCount); err != nil {
			return vcrerr.Wrap(vcrerr.Validation, "layers."+l.ID, err)
		}
	}

	return nil
}

// validatePaths rejects absolute paths and ".." traversal in any
// layer-referenced file path, requiring every path to resolve within the
// manifest's own directory (§3 invariant: "referenced paths never escape
// the manifest directory").
func validatePaths(l Layer, dir string) error {
	var paths []string
	switch l.Kind {
	case LayerImage:
		paths = append(paths, l.Image.Path)
	case LayerSequence:
		paths = append(paths, l.Sequence.Dir)
	case LayerShader:
		if l.Shader.Path != "" {
			paths = append(paths, l.Shader.Path)
		}
	case LayerASCII:
		if l.ASCII.SequenceDir != "" {
			paths = append(paths, l.ASCII.SequenceDir)
		}
	}
	for _, p := range paths {
		if err := safePath(dir, p); err != nil {
			return err
		}
	}
	return nil
}

func safePath(dir, p string) error {
	if p == "" {
		return nil
	}
	if filepath.IsAbs(p) {
		return &pathError{p, "absolute paths are not allowed"}
	}
	joined := filepath.Join(dir, p)
	rel, err := filepath.Rel(dir, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return &pathError{p, "resolves outside the manifest directory"}
	}
	return nil
}

type pathError struct {
	path   string
	reason string
}

func (e *pathError) Error() string { return e.path + ": " + e.reason }

// validateKeyframeRanges re-checks end>start on every keyframe property a
// layer carries (the decoder already enforces this per-property; this is
// the centralized sweep referenced by the manifest's validation step).
func validateKeyframeRanges(l Layer, frameCount int) error {
	check := func(what string, start, end int) error {
		if end <= start {
			return &rangeError{what, start, end}
		}
		return nil
	}
	if l.Position.Kind == property.Keyframe {
		if err := check("position", l.Position.Keyframe.StartFrame, l.Position.Keyframe.EndFrame); err != nil {
			return err
		}
	}
	if l.Scale.Kind == property.Keyframe {
		if err := check("scale", l.Scale.Keyframe.StartFrame, l.Scale.Keyframe.EndFrame); err != nil {
			return err
		}
	}
	if l.Rotation.Kind == property.Keyframe {
		if err := check("rotation", l.Rotation.Keyframe.StartFrame, l.Rotation.Keyframe.EndFrame); err != nil {
			return err
		}
	}
	if l.Opacity.Kind == property.Keyframe {
		if err := check("opacity", l.Opacity.Keyframe.StartFrame, l.Opacity.Keyframe.EndFrame); err != nil {
			return err
		}
	}
	return nil
}

type rangeError struct {
	what       string
	start, end int
}

func (e *rangeError) Error() string {
	return e.what + ": end_frame must be greater than start_frame"
}

// probeFinite samples every animated property of l across the full frame
// range and rejects NaN/Inf results (§3 invariant: "every sampled
// property value is finite at every frame of the render").
func probeFinite(l Layer, frameCount int) error {
	for f := 0; f < frameCount; f++ {
		if _, err := property.SampleVec2(l.Position, f); err != nil {
			return err
		}
		if _, err := property.SampleVec2(l.Scale, f); err != nil {
			return err
		}
		if _, err := property.SampleScalar(l.Rotation, f); err != nil {
			return err
		}
		if _, err := property.SampleScalar(l.Opacity, f); err != nil {
			return err
		}
	}
	return nil
}

// stableSort orders layers by ascending Z, ties broken by declaration
// order (§4.4 step 7).
func stableSort(layers []Layer) {
	sort.SliceStable(layers, func(i, j int) bool {
		if layers[i].Z != layers[j].Z {
			return layers[i].Z < layers[j].Z
		}
		return layers[i].declOrder < layers[j].declOrder
	})
}
