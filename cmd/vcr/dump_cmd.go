/*
NAME
  dump_cmd.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vcrfx/vcr/scene"
	"github.com/vcrfx/vcr/vcrerr"
)

// newDumpCmd prints the evaluated per-layer scene state at a single
// frame (or timestamp) as JSON, for inspecting modulator/animation
// results without rendering pixels (§6).
func newDumpCmd() *cobra.Command {
	var (
		frame int
		time  float64
		sets  []string
	)
	cmd := &cobra.Command{
		Use:   "dump <manifest>",
		Short: "print the evaluated scene state at a frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadManifest(args[0], sets)
			if err != nil {
				return err
			}
			f := frame
			if cmd.Flags().Changed("time") {
				f = int(time * float64(r.Environment.FPS))
			}
			sc, err := scene.Evaluate(r, f)
			if err != nil {
				return vcrerr.Wrap(vcrerr.Validation, "dump", err)
			}
			b, err := json.MarshalIndent(sc, "", "  ")
			if err != nil {
				return vcrerr.Wrap(vcrerr.Runtime, "dump", err)
			}
			fmt.Println(string(b))
			return nil
		},
	}
	cmd.Flags().IntVar(&frame, "frame", 0, "frame index to evaluate")
	cmd.Flags().Float64Var(&time, "time", 0, "timestamp in seconds to evaluate (overrides --frame)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a manifest parameter, name=value")
	return cmd
}
