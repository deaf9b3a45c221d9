/*
NAME
  hash.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ascii

import (
	"hash/fnv"
	"image"
	"math"
)

// hashFloats folds a float64 slice into an FNV-1a 64 digest, each value
// taken by its exact IEEE-754 bit pattern so the hash is reproducible
// bit-for-bit across runs (determinism envelope, §4.8).
func hashFloats(v []float64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, f := range v {
		bits := math.Float64bits(f)
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		h.Write(buf[:])
	}
	return h.Sum64()
}

func hashInts(v []int) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, n := range v {
		u := uint64(int64(n))
		for i := 0; i < 8; i++ {
			buf[i] = byte(u >> (8 * i))
		}
		h.Write(buf[:])
	}
	return h.Sum64()
}

// hashImage folds an image's raw pixel bytes into an FNV-1a 64 digest.
func hashImage(img image.Image) uint64 {
	h := fnv.New64a()
	b := img.Bounds()
	var buf [8]byte
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			buf[0], buf[1] = byte(r), byte(r>>8)
			buf[2], buf[3] = byte(g), byte(g>>8)
			buf[4], buf[5] = byte(bl), byte(bl>>8)
			buf[6], buf[7] = byte(a), byte(a>>8)
			h.Write(buf[:])
		}
	}
	return h.Sum64()
}
