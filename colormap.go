package main

import (
	"image"
	"image/color"
	"math"

	"github.com/nicospum/rendija2simspum/quantum"
)

// drawPlaceholder fills a raster with a flat background color, used before
// the first frame arrives.
func drawPlaceholder(img *image.RGBA, c color.Color) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

// viridis is a piecewise linear approximation of the Viridis colormap,
// used for the theory overlay heat strip.
func viridis(val float64) color.Color {
	val = math.Max(0, math.Min(1, val))
	var r, g, b uint8
	if val < 0.25 {
		f := val * 4.0
		r = uint8(68 + 1*f)
		g = uint8(1 + 55*f)
		b = uint8(84 + 51*f)
	} else if val < 0.5 {
		f := (val - 0.25) * 4.0
		r = uint8(69 - 48*f)
		g = uint8(56 + 93*f)
		b = uint8(135 - 7*f)
	} else if val < 0.75 {
		f := (val - 0.5) * 4.0
		r = uint8(21 + 108*f)
		g = uint8(149 + 51*f)
		b = uint8(128 - 93*f)
	} else {
		f := (val - 0.75) * 4.0
		r = uint8(129 + 126*f)
		g = uint8(200 + 23*f)
		b = uint8(35 - 31*f)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// cellColor converts a detection-field accumulator to a display pixel.
func cellColor(c quantum.Cell) color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Min(1, c.R) * 255),
		G: uint8(math.Min(1, c.G) * 255),
		B: uint8(math.Min(1, c.B) * 255),
		A: 255,
	}
}

// kindColor converts a particle kind's display color to a pixel.
func kindColor(k quantum.ParticleKind) color.NRGBA {
	c := quantum.Properties(k).Color
	return color.NRGBA{
		R: uint8(c.R * 255),
		G: uint8(c.G * 255),
		B: uint8(c.B * 255),
		A: 255,
	}
}
