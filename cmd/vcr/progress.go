/*
NAME
  progress.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"github.com/schollz/progressbar/v3"
)

// newProgress returns a done/total callback that drives a terminal
// progress bar, or a no-op when --quiet is set. total is fixed for the
// lifetime of the bar since a render window's frame count is known
// up front.
func newProgress(label string, total int) func(done, total int) {
	if flagQuiet || total <= 0 {
		return func(int, int) {}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return func(done, _ int) {
		_ = bar.Set(done)
	}
}
