/*
NAME
  report.go

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
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/vcrfx/vcr/vcrerr"
)

// errorLabel renders "vcr: <kind>:" in bold red when stderr is a
// terminal; color.NoColor (set by the fatih/color package itself from
// NO_COLOR/isatty) makes this a plain string otherwise, so piping to a
// file or CI log never gets escape codes.
var errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()

// agentReport mirrors §7's structured agent-mode error document:
// {kind, head, summary, chain}.
type agentReport struct {
	Kind    string   `json:"kind"`
	Head    string   `json:"head"`
	Summary string   `json:"summary"`
	Chain   []string `json:"chain,omitempty"`
}

func writeAgentReport(kind vcrerr.Kind, err error) {
	report := agentReport{Kind: kind.String(), Summary: err.Error()}
	var ve *vcrerr.Error
	if errors.As(err, &ve) {
		report.Head = ve.Head
	}
	if flagVerbose {
		for e := err; e != nil; e = errors.Unwrap(e) {
			report.Chain = append(report.Chain, e.Error())
		}
	}
	b, _ := json.MarshalIndent(report, "", "  ")
	fmt.Fprintln(os.Stderr, string(b))
}

func writeHumanReport(kind vcrerr.Kind, err error) {
	if flagVerbose {
		for e := err; e != nil; e = errors.Unwrap(e) {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", errorLabel(fmt.Sprintf("vcr: %s:", kind)), err)
}
