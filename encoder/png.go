/*
NAME
  png.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// WritePNG encodes img as a PNG file at path, used by the render-frame
// and render-frames CLI modes (§6) which bypass the subprocess video
// sink entirely. Stdlib image/png is the pack's own choice for this: no
// example in the corpus reaches for a third-party PNG encoder, and the
// format's compression isn't a tunable this spec cares about.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding png %s: %w", path, err)
	}
	return nil
}
