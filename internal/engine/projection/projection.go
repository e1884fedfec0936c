// Package projection maps window pixels through the camera onto the
// equirectangular texture.
//
// A pixel at plane distance r from the projection center lands at declination
// 2·atan2(scale, r): the center maps to the far pole (declination π) and the
// view opens toward declination 0 as r grows. Azimuth is the pixel's polar
// angle around the center.
package projection

import (
	"fmt"
	"math"

	"github.com/Faultbox/tangent/internal/engine/camera"
	"github.com/Faultbox/tangent/internal/engine/texture"
	vmath "github.com/Faultbox/tangent/pkg/math"
)

// WrapAzimuth reduces a into [0, 2π).
func WrapAzimuth(a float64) float64 {
	return vmath.Wrap(a, 2*math.Pi)
}

// WrapDeclination reduces d into [0, π).
func WrapDeclination(d float64) float64 {
	return vmath.Wrap(d, math.Pi)
}

// Angles returns the unrotated spherical coordinates of window pixel (i, j)
// in a width x height window. At the exact projection center azimuth is
// atan2(0, 0), which is 0.
func Angles(i, j, width, height int, cam camera.State) (declination, azimuth float64) {
	x := float64(i) - float64(width)/2 - float64(cam.Pan.X)
	y := float64(j) - float64(height)/2 - float64(cam.Pan.Y)
	r := math.Sqrt(x*x + y*y)

	return 2 * math.Atan2(float64(cam.Scale), r), math.Atan2(y, x)
}

// Sample returns the texel row and column seen through window pixel (i, j).
// The result is always inside the texture.
func Sample(i, j, width, height int, cam camera.State, tex *texture.Asset) (row, col int) {
	decl, az := Angles(i, j, width, height, cam)

	az = WrapAzimuth(az + float64(cam.Rotation.X))
	decl = WrapDeclination(decl + float64(cam.Rotation.Y))

	return texelIndex(decl/math.Pi, tex.Height()), texelIndex(az/(2*math.Pi), tex.Width())
}

// texelIndex maps frac in [0, 1) onto [0, n). Rounding in frac*n can reach n
// for frac just below 1; that lands on the last texel.
func texelIndex(frac float64, n int) int {
	k := int(frac * float64(n))
	if k >= n {
		k = n - 1
	}
	return k
}

// Pack packs a color as red in bits 0-7, green in 8-15 and blue in 16-23.
func Pack(r, g, b uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16
}

// Unpack is the inverse of Pack. Bits 24-31 are ignored.
func Unpack(c uint32) (r, g, b uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16)
}

// Render fills pix, a width x height row-major buffer, with one frame of the
// projection. Every element is written.
func Render(pix []uint32, width, height int, cam camera.State, tex *texture.Asset) {
	if len(pix) != width*height {
		panic(fmt.Sprintf("projection: buffer has %d pixels, want %dx%d", len(pix), width, height))
	}

	for j := 0; j < height; j++ {
		line := pix[j*width : (j+1)*width]
		for i := range line {
			row, col := Sample(i, j, width, height, cam, tex)
			line[i] = Pack(tex.Texel(row, col))
		}
	}
}
