/*
NAME
  check_cmd.go

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

	"github.com/spf13/cobra"
)

// newCheckCmd validates a manifest (parse, substitute, override, decode,
// validate) without rendering anything, exiting non-zero on failure
// (§6: "check <manifest> — validate only").
func newCheckCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "check <manifest>",
		Short: "validate a manifest without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadManifest(args[0], sets)
			if err != nil {
				return err
			}
			fmt.Printf("ok: %d layers, %dx%d, %d frames at %d fps\n",
				len(r.Layers), r.Environment.Width, r.Environment.Height,
				r.Environment.FrameCount, r.Environment.FPS)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a manifest parameter, name=value")
	return cmd
}
