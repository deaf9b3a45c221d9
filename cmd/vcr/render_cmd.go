/*
NAME
  render_cmd.go

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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vcrfx/vcr/encoder"
	"github.com/vcrfx/vcr/render"
	"github.com/vcrfx/vcr/vcrerr"
)

func newRenderCmd() *cobra.Command {
	var (
		output     string
		startFrame int
		endFrame   int
		frames     int
		sets       []string
	)
	cmd := &cobra.Command{
		Use:   "render <manifest>",
		Short: "encode a frame window to a MOV/PNG artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadManifest(args[0], sets)
			if err != nil {
				return err
			}
			rd, backendName, backendReason, err := newRenderer(r)
			if err != nil {
				return err
			}
			defer rd.Close()

			window, err := resolveWindow(r.Environment, startFrame, endFrame, frames,
				cmd.Flags().Changed("end-frame"), cmd.Flags().Changed("frames"))
			if err != nil {
				return err
			}

			out := output
			if out == "" {
				out = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])) + ".mov"
			}

			codec, err := chooseCodec(rd, window)
			if err != nil {
				return vcrerr.Wrap(vcrerr.Runtime, "codec selection", err)
			}

			sink, err := encoder.NewVideoSink(out, r.Environment.Width, r.Environment.Height, r.Environment.FPS, codec, logger)
			if err != nil {
				return vcrerr.Wrap(vcrerr.MissingDependency, "encoder", err)
			}

			if err := render.RunVideo(rd, sink, window, newProgress("rendering", window.Count)); err != nil {
				return err
			}

			meta := render.BuildMetadata(r, version, backendName, backendReason, window)
			if err := encoder.WriteMetadata(out+".metadata.json", meta); err != nil {
				return vcrerr.Wrap(vcrerr.IO, "metadata", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "output file path (default: <manifest-basename>.mov)")
	cmd.Flags().IntVar(&startFrame, "start-frame", 0, "first frame to render")
	cmd.Flags().IntVar(&endFrame, "end-frame", 0, "last frame to render (inclusive)")
	cmd.Flags().IntVar(&frames, "frames", 0, "number of frames to render")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a manifest parameter, name=value")
	return cmd
}

// chooseCodec inspects the start frame's alpha channel to pick an
// alpha-capable codec only when the render actually needs one (§4.9).
func chooseCodec(rd *render.Renderer, window render.Window) (encoder.Codec, error) {
	frame, _, err := rd.RenderFrame(window.Start)
	if err != nil {
		return encoder.ProRes422HQ, err
	}
	for i := 3; i < len(frame.Pix); i += 4 {
		if frame.Pix[i] != 255 {
			return encoder.ProRes4444, nil
		}
	}
	return encoder.ProRes422HQ, nil
}

func newRenderFrameCmd() *cobra.Command {
	var (
		output string
		frame  int
		sets   []string
	)
	cmd := &cobra.Command{
		Use:   "render-frame <manifest>",
		Short: "render a single frame to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadManifest(args[0], sets)
			if err != nil {
				return err
			}
			rd, _, _, err := newRenderer(r)
			if err != nil {
				return err
			}
			defer rd.Close()
			out := output
			if out == "" {
				out = fmt.Sprintf("frame_%06d.png", frame)
			}
			return render.RunSinglePNG(rd, out, frame)
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "output PNG path")
	cmd.Flags().IntVar(&frame, "frame", 0, "frame index to render")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a manifest parameter, name=value")
	return cmd
}

func newRenderFramesCmd() *cobra.Command {
	var (
		outputDir  string
		startFrame int
		frames     int
		sets       []string
	)
	cmd := &cobra.Command{
		Use:   "render-frames <manifest>",
		Short: "render a frame window to a PNG sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadManifest(args[0], sets)
			if err != nil {
				return err
			}
			rd, backendName, backendReason, err := newRenderer(r)
			if err != nil {
				return err
			}
			defer rd.Close()
			window, err := resolveWindow(r.Environment, startFrame, 0, frames, false, cmd.Flags().Changed("frames"))
			if err != nil {
				return err
			}
			dir := outputDir
			if dir == "" {
				dir = "."
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return vcrerr.Wrap(vcrerr.IO, "output-dir", err)
			}
			if err := render.RunPNGSequence(rd, dir, window, newProgress("rendering", window.Count)); err != nil {
				return err
			}
			label := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			meta := render.BuildMetadata(r, version, backendName, backendReason, window)
			return encoder.WriteMetadata(filepath.Join(dir, label+".metadata.json"), meta)
		},
	}
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for the PNG sequence")
	cmd.Flags().IntVar(&startFrame, "start-frame", 0, "first frame to render")
	cmd.Flags().IntVar(&frames, "frames", 0, "number of frames to render")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a manifest parameter, name=value")
	return cmd
}
