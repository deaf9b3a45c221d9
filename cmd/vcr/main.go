/*
NAME
  main.go

DESCRIPTION
  vcr is a deterministic motion-graphics renderer: it resolves a YAML
  manifest, evaluates and rasterizes the described layers frame by
  frame, composites them, and pipes the result to an encoder sidecar or
  writes PNGs directly.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vcrfx/vcr/vcrerr"
)

// Current software version, reported by --version and in the encoder
// metadata sidecar's tool_version field (§4.9).
const version = "v0.1.0"

var (
	flagBackend     string
	flagQuiet       bool
	flagAgentMode   bool
	flagVerbose     bool
	flagEdgeBoost    string
	flagBayerDither  string
	flagSmoothGlyphs string
	flagLogFile      string

	logger logging.Logger
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		reportAndExit(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vcr",
		Short:         "deterministic motion-graphics renderer",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogger()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flagBackend, "backend", "auto", "rasterizer backend: auto, software, gpu")
	root.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "suppress progress output")
	root.PersistentFlags().BoolVar(&flagAgentMode, "agent-mode", envBool("VCR_AGENT_MODE"), "emit structured JSON error reports")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose-errors", envBool("VCR_VERBOSE_ERRORS"), "include the full error chain in diagnostics")
	root.PersistentFlags().StringVar(&flagEdgeBoost, "ascii-edge-boost", envTriState("VCR_ASCII_EDGE_BOOST"), "ascii edge-boost pass: on, off")
	root.PersistentFlags().StringVar(&flagBayerDither, "ascii-bayer-dither", envTriState("VCR_ASCII_BAYER_DITHER"), "ascii ordered-dither pass: on, off")
	root.PersistentFlags().StringVar(&flagSmoothGlyphs, "ascii-smooth-glyphs", envTriState("VCR_ASCII_SMOOTH_GLYPHS"), "ascii atlas antialiased blend instead of the spec-literal binary test: on, off")
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "rotate structured logs to this file instead of stderr")

	root.AddCommand(
		newRenderCmd(),
		newRenderFrameCmd(),
		newRenderFramesCmd(),
		newCheckCmd(),
		newDumpCmd(),
		newParamsCmd(),
		newExplainCmd(),
		newDeterminismReportCmd(),
	)
	return root
}

func initLogger() {
	var w io.Writer = os.Stderr
	if flagLogFile != "" {
		w = &lumberjack.Logger{Filename: flagLogFile, MaxSize: 50, MaxBackups: 5, MaxAge: 28}
	}
	level := logging.Info
	if flagQuiet {
		level = logging.Warning
	}
	logger = logging.New(level, w, true)
}

func envBool(name string) bool {
	return os.Getenv(name) == "1" || os.Getenv(name) == "true"
}

// envTriState reads an on/off environment variable, leaving the flag
// default empty (meaning "ascii layer default") when unset.
func envTriState(name string) string {
	switch os.Getenv(name) {
	case "1", "true", "on":
		return "on"
	case "0", "false", "off":
		return "off"
	default:
		return ""
	}
}

func asciiToggle(s string) bool { return s == "on" }

// reportAndExit classifies err via vcrerr and terminates the process
// with the matching exit code (§6, §7).
func reportAndExit(err error) {
	kind := vcrerr.KindOf(err)
	if flagAgentMode {
		writeAgentReport(kind, err)
	} else {
		writeHumanReport(kind, err)
	}
	os.Exit(kind.ExitCode())
}
