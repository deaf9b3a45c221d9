/*
NAME
  explain_cmd.go

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
	"sort"

	"github.com/spf13/cobra"

	"github.com/vcrfx/vcr/vcrerr"
)

type explainOut struct {
	ManifestHash string            `json:"manifest_hash"`
	Params       map[string]string `json:"resolved_params"`
	Overrides    map[string]string `json:"overrides"`
}

// newExplainCmd shows the fully resolved parameter map (defaults plus
// any --set overrides applied) and the canonical manifest hash, so a
// caller can confirm what a render will actually use before spending
// time on it (§6).
func newExplainCmd() *cobra.Command {
	var (
		sets   []string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "explain <manifest>",
		Short: "show resolved parameters and the manifest hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadManifest(args[0], sets)
			if err != nil {
				return err
			}
			out := explainOut{
				ManifestHash: fmt.Sprintf("0x%016x", r.Hash),
				Params:       map[string]string{},
				Overrides:    map[string]string{},
			}
			for k, v := range r.Params {
				out.Params[k] = v.String()
			}
			for k, v := range r.Overrides {
				out.Overrides[k] = v.String()
			}
			if asJSON {
				b, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return vcrerr.Wrap(vcrerr.Runtime, "explain", err)
				}
				fmt.Println(string(b))
				return nil
			}
			fmt.Printf("manifest_hash: %s\n", out.ManifestHash)
			names := make([]string, 0, len(out.Params))
			for k := range out.Params {
				names = append(names, k)
			}
			sort.Strings(names)
			for _, k := range names {
				overridden := ""
				if _, ok := out.Overrides[k]; ok {
					overridden = " (overridden)"
				}
				fmt.Printf("  %s = %s%s\n", k, out.Params[k], overridden)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a manifest parameter, name=value")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}
