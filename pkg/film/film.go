// Package film accumulates per-pixel radiance estimates across frames and
// resolves them into an RGBA8 buffer for display or encoding.
package film

import (
	"fmt"
	"math"

	"github.com/jtothec67/go-pathtracer/pkg/core"
)

// ColourSpace selects the transfer function applied during resolve
type ColourSpace int

const (
	ColourSpaceLinear ColourSpace = iota
	ColourSpaceSRGB
)

// ToneMap selects the tone mapping operator applied during resolve
type ToneMap int

const (
	ToneMapNone ToneMap = iota
	ToneMapReinhard
)

// Film is a progressive accumulator: linear RGB sums and sample counts per
// pixel, with a cached RGBA8 resolve. The scheduler guarantees that workers
// write disjoint pixels, so AddSample needs no locking.
type Film struct {
	width  int
	height int

	accum   []core.Vec3 // Linear sums per pixel
	samples []uint32    // Sample counts per pixel
	display []byte      // Cached RGBA8 output

	colourSpace ColourSpace
	toneMap     ToneMap

	dirty bool // Accumulation changed since last resolve
}

// New creates a film of the given size with sRGB output and Reinhard tone
// mapping, matching the interactive viewer defaults.
func New(width, height int) *Film {
	f := &Film{
		colourSpace: ColourSpaceSRGB,
		toneMap:     ToneMapReinhard,
	}
	f.Resize(width, height)
	return f
}

// Width returns the film width in pixels
func (f *Film) Width() int { return f.width }

// Height returns the film height in pixels
func (f *Film) Height() int { return f.height }

// SetColourSpace selects the output transfer function
func (f *Film) SetColourSpace(cs ColourSpace) {
	f.colourSpace = cs
	f.dirty = true
}

// ColourSpace returns the configured transfer function
func (f *Film) ColourSpace() ColourSpace { return f.colourSpace }

// SetToneMap selects the tone mapping operator
func (f *Film) SetToneMap(tm ToneMap) {
	f.toneMap = tm
	f.dirty = true
}

// ToneMap returns the configured tone mapping operator
func (f *Film) ToneMap() ToneMap { return f.toneMap }

// Resize reallocates the accumulation buffers and discards all samples
func (f *Film) Resize(width, height int) {
	f.width = max(0, width)
	f.height = max(0, height)
	n := f.width * f.height
	f.accum = make([]core.Vec3, n)
	f.samples = make([]uint32, n)
	f.display = make([]byte, n*4)
	f.dirty = true
}

// Reset zeroes the accumulators and sample counts
func (f *Film) Reset() {
	for i := range f.accum {
		f.accum[i] = core.Vec3{}
		f.samples[i] = 0
	}
	f.dirty = true
}

// AddSample accumulates one linear RGB radiance estimate for pixel (x, y).
// Safe for concurrent use across disjoint pixel coordinates only.
func (f *Film) AddSample(x, y int, linearRGB core.Vec3) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		panic(fmt.Sprintf("film: pixel (%d, %d) out of %dx%d bounds", x, y, f.width, f.height))
	}
	p := y*f.width + x
	f.accum[p] = f.accum[p].Add(linearRGB)
	f.samples[p]++
	f.dirty = true
}

// AverageAt returns the current average radiance for pixel (x, y) in linear
// space, or zero if no samples have been taken yet.
func (f *Film) AverageAt(x, y int) core.Vec3 {
	p := y*f.width + x
	s := f.samples[p]
	if s == 0 {
		return core.Vec3{}
	}
	return f.accum[p].Multiply(1.0 / float64(s))
}

// SampleCount returns the number of samples accumulated for pixel (x, y)
func (f *Film) SampleCount(x, y int) uint32 {
	return f.samples[y*f.width+x]
}

// Resolve converts the accumulated radiance to an RGBA8 buffer: average,
// optional Reinhard tone map, clamp, optional sRGB encode, 8-bit rounding
// with alpha 255. The buffer is W*H*4 bytes, row-major with pixel row y = 0
// first (the camera maps y = 0 to the bottom of the view). The cached
// buffer is returned as long as nothing has changed since the last resolve.
func (f *Film) Resolve() []byte {
	if !f.dirty {
		return f.display
	}

	for p := 0; p < f.width*f.height; p++ {
		var c core.Vec3
		if s := f.samples[p]; s > 0 {
			c = f.accum[p].Multiply(1.0 / float64(s))
		}

		if f.toneMap == ToneMapReinhard {
			c = core.NewVec3(c.X/(1+c.X), c.Y/(1+c.Y), c.Z/(1+c.Z))
		}

		c = c.Clamp(0, 1)

		if f.colourSpace == ColourSpaceSRGB {
			c = core.NewVec3(linearToSRGB(c.X), linearToSRGB(c.Y), linearToSRGB(c.Z))
		}

		f.display[4*p+0] = byte(math.Round(c.X * 255.0))
		f.display[4*p+1] = byte(math.Round(c.Y * 255.0))
		f.display[4*p+2] = byte(math.Round(c.Z * 255.0))
		f.display[4*p+3] = 255
	}

	f.dirty = false
	return f.display
}

// linearToSRGB applies the IEC 61966-2-1 piecewise transfer function
func linearToSRGB(u float64) float64 {
	if u <= 0.0031308 {
		return 12.92 * u
	}
	return 1.055*math.Pow(u, 1.0/2.4) - 0.055
}
