package projection

import (
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"github.com/Faultbox/tangent/internal/engine/camera"
	"github.com/Faultbox/tangent/internal/engine/texture"
	vmath "github.com/Faultbox/tangent/pkg/math"
)

// distinctTexture returns a width x height texture where texel (row, col)
// is (row, col, 0x80).
func distinctTexture(t *testing.T, width, height int) *texture.Asset {
	t.Helper()
	rgb := make([]byte, 0, 3*width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			rgb = append(rgb, byte(row), byte(col), 0x80)
		}
	}
	tex, err := texture.New(width, height, rgb)
	if err != nil {
		t.Fatalf("texture.New failed: %v", err)
	}
	return tex
}

func TestWrapRanges(t *testing.T) {
	inputs := []float64{-1e9, -7.5, -2 * math.Pi, -math.Pi, -1e-12, 0, 1e-12, math.Pi, 2 * math.Pi, 13, 1e9}

	for _, a := range inputs {
		az := WrapAzimuth(a)
		if az < 0 || az >= 2*math.Pi {
			t.Errorf("WrapAzimuth(%v) = %v, out of [0, 2π)", a, az)
		}
		decl := WrapDeclination(a)
		if decl < 0 || decl >= math.Pi {
			t.Errorf("WrapDeclination(%v) = %v, out of [0, π)", a, decl)
		}

		if again := WrapAzimuth(az); again != az {
			t.Errorf("WrapAzimuth not idempotent at %v: %v then %v", a, az, again)
		}
		if again := WrapDeclination(decl); again != decl {
			t.Errorf("WrapDeclination not idempotent at %v: %v then %v", a, decl, again)
		}
	}
}

func TestWrapNegative(t *testing.T) {
	if got := WrapAzimuth(-math.Pi / 2); math.Abs(got-1.5*math.Pi) > 1e-12 {
		t.Errorf("WrapAzimuth(-π/2) = %v, want 3π/2", got)
	}
	if got := WrapDeclination(-0.25); math.Abs(got-(math.Pi-0.25)) > 1e-12 {
		t.Errorf("WrapDeclination(-0.25) = %v, want π-0.25", got)
	}
}

func TestAngles_Center(t *testing.T) {
	for _, scale := range []float32{1, 0.001, 250, camera.MinScale, camera.MaxScale} {
		cam := camera.New(camera.DefaultConfig())
		cam.Scale = scale

		decl, az := Angles(50, 25, 100, 50, cam)
		if decl != math.Pi {
			t.Errorf("scale %v: center declination = %v, want π", scale, decl)
		}
		// atan2(0, 0) is pinned to 0.
		if az != 0 {
			t.Errorf("scale %v: center azimuth = %v, want 0", scale, az)
		}
	}
}

func TestAngles_FollowsPan(t *testing.T) {
	cam := camera.New(camera.DefaultConfig())
	cam.Pan = vmath.Vec2{X: 10, Y: -4}

	// The projection center moves with the pan.
	decl, az := Angles(60, 21, 100, 50, cam)
	if decl != math.Pi || az != 0 {
		t.Errorf("panned center = (%v, %v), want (π, 0)", decl, az)
	}

	// A pixel straight below the center has azimuth π/2.
	_, az = Angles(60, 31, 100, 50, cam)
	if math.Abs(az-math.Pi/2) > 1e-12 {
		t.Errorf("azimuth below center = %v, want π/2", az)
	}
}

func TestAngles_DeclinationFormula(t *testing.T) {
	cam := camera.New(camera.DefaultConfig())
	cam.Scale = 3

	// x = 7 - 5 = 2, y = 5 - 2 = 3, r = √13.
	decl, az := Angles(7, 5, 10, 4, cam)
	wantDecl := 2 * math.Atan2(3, math.Sqrt(13))
	wantAz := math.Atan2(3, 2)
	if math.Abs(decl-wantDecl) > 1e-12 {
		t.Errorf("declination = %v, want %v", decl, wantDecl)
	}
	if math.Abs(az-wantAz) > 1e-12 {
		t.Errorf("azimuth = %v, want %v", az, wantAz)
	}
}

func TestSample_AlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	textures := []*texture.Asset{
		distinctTexture(t, 1, 1),
		distinctTexture(t, 3, 7),
		distinctTexture(t, 36, 18),
		distinctTexture(t, 360, 180),
	}
	scales := []float32{camera.MinScale, 1e-6, 0.5, 1, 7, 1e4, camera.MaxScale}

	for n := 0; n < 200; n++ {
		cam := camera.New(camera.DefaultConfig())
		cam.Scale = scales[rng.Intn(len(scales))]
		cam.Pan = vmath.Vec2{X: float32(rng.NormFloat64() * 50), Y: float32(rng.NormFloat64() * 50)}
		cam.Rotation = vmath.Vec2{X: float32(rng.NormFloat64() * 100), Y: float32(rng.NormFloat64() * 100)}
		width, height := 1+rng.Intn(24), 1+rng.Intn(24)
		tex := textures[rng.Intn(len(textures))]

		for j := 0; j < height; j++ {
			for i := 0; i < width; i++ {
				row, col := Sample(i, j, width, height, cam, tex)
				if row < 0 || row >= tex.Height() || col < 0 || col >= tex.Width() {
					t.Fatalf("Sample(%d, %d) in %dx%d with %+v = (%d, %d), outside %dx%d texture",
						i, j, width, height, cam, row, col, tex.Width(), tex.Height())
				}
			}
		}
	}
}

func TestSample_RotationWrapsAtUpperBound(t *testing.T) {
	tex := distinctTexture(t, 8, 4)
	cam := camera.New(camera.DefaultConfig())

	// Center declination is π; a full turn of rotation lands exactly on the
	// wrap boundary and must come back to row 0.
	cam.Rotation = vmath.Vec2{X: float32(2 * math.Pi), Y: float32(math.Pi)}
	row, col := Sample(2, 2, 4, 4, cam, tex)
	if row < 0 || row >= 4 || col < 0 || col >= 8 {
		t.Fatalf("Sample = (%d, %d), outside 8x4 texture", row, col)
	}
}

func TestTexelIndex(t *testing.T) {
	tests := []struct {
		frac float64
		n    int
		want int
	}{
		{0, 4, 0},
		{0.2499, 4, 0},
		{0.25, 4, 1},
		{0.999999, 4, 3},
		{1, 4, 3},
		{math.Nextafter(1, 0), 1, 0},
	}

	for _, tt := range tests {
		if got := texelIndex(tt.frac, tt.n); got != tt.want {
			t.Errorf("texelIndex(%v, %d) = %d, want %d", tt.frac, tt.n, got, tt.want)
		}
	}
}

func TestPackUnpack(t *testing.T) {
	c := Pack(0x12, 0x34, 0x56)
	if c != 0x00563412 {
		t.Errorf("Pack = %#08x, want 0x00563412", c)
	}
	r, g, b := Unpack(c | 0xFF000000)
	if r != 0x12 || g != 0x34 || b != 0x56 {
		t.Errorf("Unpack = (%#x, %#x, %#x), want (0x12, 0x34, 0x56)", r, g, b)
	}
}

// goldenWindow is the hand-computed texel (row, col) for each pixel of a 4x2
// window over a 4x2 texture with scale 1 and no pan or rotation.
//
//	j=0 (y=-1): x=-2 -> (0,2)  x=-1 -> (0,2)  x=0 -> (1,3)  x=1 -> (0,3)
//	j=1 (y=0):  x=-2 -> (0,2)  x=-1 -> (1,2)  x=0 -> (0,0)  x=1 -> (1,0)
var goldenWindow = [2][4][2]int{
	{{0, 2}, {0, 2}, {1, 3}, {0, 3}},
	{{0, 2}, {1, 2}, {0, 0}, {1, 0}},
}

func checkGolden(t *testing.T, tex *texture.Asset) {
	t.Helper()
	cam := camera.New(camera.DefaultConfig())
	pix := make([]uint32, 4*2)
	Render(pix, 4, 2, cam, tex)

	for j := 0; j < 2; j++ {
		for i := 0; i < 4; i++ {
			rc := goldenWindow[j][i]
			if row, col := Sample(i, j, 4, 2, cam, tex); row != rc[0] || col != rc[1] {
				t.Errorf("pixel (%d, %d): sample (%d, %d), want (%d, %d)", i, j, row, col, rc[0], rc[1])
			}
			want := Pack(tex.Texel(rc[0], rc[1]))
			if got := pix[j*4+i]; got != want {
				t.Errorf("pixel (%d, %d) = %#08x, want %#08x", i, j, got, want)
			}
		}
	}
}

func TestRender_Golden(t *testing.T) {
	checkGolden(t, distinctTexture(t, 4, 2))
}

func TestRender_GoldenZeroPixelOffset(t *testing.T) {
	// With the pixel data starting at byte 0 the header fields live inside
	// the texels: width at bytes 18-21, height at 22-25.
	data := make([]byte, 26)
	for i := range data {
		data[i] = byte(0xA0 + i)
	}
	le := binary.LittleEndian
	le.PutUint32(data[2:], uint32(len(data)))
	le.PutUint32(data[10:], 0)
	le.PutUint32(data[18:], 4)
	le.PutUint32(data[22:], 2)

	tex, err := texture.Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tex.PixelOffset() != 0 {
		t.Fatalf("expected pixel offset 0, got %d", tex.PixelOffset())
	}

	// Spot-check the texel layout before the projection uses it.
	if r, g, b := tex.Texel(1, 2); r != 4 || g != 0 || b != 0 {
		t.Errorf("texel (1, 2) = (%d, %d, %d), want (4, 0, 0)", r, g, b)
	}
	checkGolden(t, tex)
}

func TestRender_FillsEveryPixel(t *testing.T) {
	tex := distinctTexture(t, 16, 8)
	cam := camera.New(camera.DefaultConfig())
	cam.Scale = 20

	pix := make([]uint32, 33*17)
	for i := range pix {
		pix[i] = 0xFFFFFFFF
	}
	Render(pix, 33, 17, cam, tex)

	for i, c := range pix {
		// Texel blue is always 0x80 and bits 24-31 stay clear.
		if c>>16 != 0x80 {
			t.Fatalf("pixel %d = %#08x was not written by Render", i, c)
		}
	}
}

func TestRender_SizeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched buffer")
		}
	}()
	Render(make([]uint32, 5), 2, 3, camera.New(camera.DefaultConfig()), distinctTexture(t, 2, 2))
}

func TestRender_EmptyWindow(t *testing.T) {
	// A minimized window has no pixels; Render must accept it.
	Render(nil, 0, 0, camera.New(camera.DefaultConfig()), distinctTexture(t, 2, 2))
}
