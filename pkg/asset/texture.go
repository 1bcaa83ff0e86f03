package asset

import (
	"math"

	"github.com/jtothec67/go-pathtracer/pkg/core"
)

// SampleNearest samples the image at uv with nearest filtering and repeat
// wrapping. Channels the image lacks default to 0, except alpha which
// defaults to 1. An empty image samples as opaque white.
func (img *Image) SampleNearest(uv core.Vec2) RGBA {
	if img == nil || img.Width <= 0 || img.Height <= 0 || img.Channels <= 0 || len(img.Data) == 0 {
		return RGBA{1, 1, 1, 1}
	}

	u := uv.X - math.Floor(uv.X)
	v := uv.Y - math.Floor(uv.Y)

	x := min(int(u*float64(img.Width)), img.Width-1)
	y := min(int(v*float64(img.Height)), img.Height-1)

	idx := (y*img.Width + x) * img.Channels
	get := func(c int) float64 {
		if c < img.Channels {
			return float64(img.Data[idx+c]) / 255.0
		}
		if c == 3 {
			return 1.0
		}
		return 0.0
	}

	return RGBA{R: get(0), G: get(1), B: get(2), A: get(3)}
}
