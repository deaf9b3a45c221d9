/*
NAME
  params_cmd.go

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

	"github.com/vcrfx/vcr/vcrerr"
)

type paramOut struct {
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	Default     string  `json:"default"`
	HasMin      bool    `json:"has_min,omitempty"`
	Min         float64 `json:"min,omitempty"`
	HasMax      bool    `json:"has_max,omitempty"`
	Max         float64 `json:"max,omitempty"`
	Description string  `json:"description,omitempty"`
}

// newParamsCmd lists the manifest's declared parameter table — name,
// type, default, optional bounds and description — without applying any
// --set overrides (§6: "params <manifest> — list declared parameters").
func newParamsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "params <manifest>",
		Short: "list declared manifest parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadManifest(args[0], nil)
			if err != nil {
				return err
			}
			out := make([]paramOut, 0, len(r.ParamDefs))
			for _, p := range r.ParamDefs {
				out = append(out, paramOut{
					Name:        p.Name,
					Kind:        p.Kind.String(),
					Default:     p.Default.String(),
					HasMin:      p.HasMin,
					Min:         p.Min,
					HasMax:      p.HasMax,
					Max:         p.Max,
					Description: p.Description,
				})
			}
			if asJSON {
				b, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return vcrerr.Wrap(vcrerr.Runtime, "params", err)
				}
				fmt.Println(string(b))
				return nil
			}
			for _, p := range out {
				fmt.Printf("%-24s %-8s default=%-10s", p.Name, p.Kind, p.Default)
				if p.HasMin {
					fmt.Printf(" min=%g", p.Min)
				}
				if p.HasMax {
					fmt.Printf(" max=%g", p.Max)
				}
				if p.Description != "" {
					fmt.Printf(" # %s", p.Description)
				}
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}
