/*
NAME
  sink.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package encoder

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"

	"github.com/ausocean/utils/logging"
)

// Codec selects the ProRes profile written to the MOV container: with
// alpha when any layer or the background can present alpha < 1,
// without otherwise (§4.9).
type Codec int

const (
	ProRes422HQ Codec = iota
	ProRes4444
)

func (c Codec) ffmpegProfile() string {
	if c == ProRes4444 {
		return "4444"
	}
	return "3" // ProRes 422 HQ.
}

func (c Codec) pixelFormat() string {
	if c == ProRes4444 {
		return "yuva444p10le"
	}
	return "yuv422p10le"
}

// VideoSink pipes raw RGBA frames to an ffmpeg subprocess and produces a
// ProRes MOV file (§4.9). Modeled on raspivid's Start/Read/Stop subprocess
// lifecycle (device/raspivid/raspivid.go), generalized from "read encoded
// output" to "write raw frames in".
type VideoSink struct {
	log    logging.Logger
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	width  int
	height int
}

// NewVideoSink starts ffmpeg, configured to read width x height raw RGBA
// frames at fps from stdin and write a ProRes MOV to path. Metadata is
// scrubbed and timestamps are fixed so that output bytes reproduce
// across runs wherever the container format allows it (§4.9).
func NewVideoSink(path string, width, height, fps int, codec Codec, log logging.Logger) (*VideoSink, error) {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprint(fps),
		"-i", "-",
		"-c:v", "prores_ks",
		"-profile:v", codec.ffmpegProfile(),
		"-pix_fmt", codec.pixelFormat(),
		"-map_metadata", "-1",
		"-fflags", "+bitexact",
		"-flags:v", "+bitexact",
		"-metadata", "creation_time=1970-01-01T00:00:00Z",
		path,
	}
	cmd := exec.Command("ffmpeg", args...)

	s := &VideoSink{log: log, cmd: cmd, width: width, height: height}
	cmd.Stderr = &s.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("piping ffmpeg stdin: %w", err)
	}
	s.stdin = stdin

	if log != nil {
		log.Info("encoder: starting ffmpeg", "args", fmt.Sprint(args))
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting ffmpeg: %w", err)
	}
	return s, nil
}

// WriteFrame writes one raw RGBA frame (§4.9's exact wire format: no row
// padding, one frame per width*height*4 bytes).
func (s *VideoSink) WriteFrame(frame []byte) error {
	want := s.width * s.height * 4
	if len(frame) != want {
		return fmt.Errorf("encoder: frame is %d bytes, want %d", len(frame), want)
	}
	if _, err := s.stdin.Write(frame); err != nil {
		return fmt.Errorf("writing frame to encoder: %w", err)
	}
	return nil
}

// Close flushes stdin, waits for ffmpeg to exit, and reports any
// subprocess failure including captured stderr.
func (s *VideoSink) Close() error {
	if err := s.stdin.Close(); err != nil {
		return fmt.Errorf("closing encoder stdin: %w", err)
	}
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg exited with error: %w: %s", err, s.stderr.String())
	}
	return nil
}
