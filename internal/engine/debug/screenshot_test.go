package debug

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/tangent/internal/engine/projection"
)

func testFrame() []uint32 {
	return []uint32{
		projection.Pack(255, 0, 0), projection.Pack(0, 255, 0),
		projection.Pack(0, 0, 255), projection.Pack(10, 20, 30),
	}
}

func fixedCapture(t *testing.T, format string) *ScreenshotCapture {
	t.Helper()
	sc, err := NewScreenshotCapture(t.TempDir(), "shot", format)
	if err != nil {
		t.Fatalf("NewScreenshotCapture failed: %v", err)
	}
	stamp := time.Date(2024, 3, 1, 12, 30, 45, 123e6, time.UTC)
	sc.now = func() time.Time { return stamp }
	return sc
}

func checkFrame(t *testing.T, img image.Image) {
	t.Helper()
	want := [][3]uint32{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {10, 20, 30}}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("image is %dx%d, want 2x2", b.Dx(), b.Dy())
	}
	for i, w := range want {
		r, g, b, _ := img.At(i%2, i/2).RGBA()
		if r>>8 != w[0] || g>>8 != w[1] || b>>8 != w[2] {
			t.Errorf("pixel %d = (%d, %d, %d), want %v", i, r>>8, g>>8, b>>8, w)
		}
	}
}

func TestFrameImage(t *testing.T) {
	img, err := FrameImage(testFrame(), 2, 2)
	if err != nil {
		t.Fatalf("FrameImage failed: %v", err)
	}
	checkFrame(t, img)
	if a := img.RGBAAt(1, 1).A; a != 0xFF {
		t.Errorf("alpha = %d, want 255", a)
	}
}

func TestFrameImage_SizeMismatch(t *testing.T) {
	if _, err := FrameImage(make([]uint32, 3), 2, 2); err == nil {
		t.Error("expected error for short buffer")
	}
}

func TestCaptureFrame_PNG(t *testing.T) {
	sc := fixedCapture(t, "")
	path, err := sc.CaptureFrame(testFrame(), 2, 2)
	if err != nil {
		t.Fatalf("CaptureFrame failed: %v", err)
	}
	if !strings.HasSuffix(path, "shot_2024-03-01_12-30-45.123.png") {
		t.Errorf("unexpected filename %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding screenshot: %v", err)
	}
	checkFrame(t, img)
}

func TestCaptureFrame_BMP(t *testing.T) {
	sc := fixedCapture(t, "BMP")
	path, err := sc.CaptureFrame(testFrame(), 2, 2)
	if err != nil {
		t.Fatalf("CaptureFrame failed: %v", err)
	}
	if !strings.HasSuffix(path, ".bmp") {
		t.Fatalf("screenshot %s does not use the bmp extension", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := bmp.Decode(f)
	if err != nil {
		t.Fatalf("decoding screenshot: %v", err)
	}
	checkFrame(t, img)
}

func TestCaptureFrame_NameCollision(t *testing.T) {
	sc := fixedCapture(t, FormatPNG)

	first, err := sc.CaptureFrame(testFrame(), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	second, err := sc.CaptureFrame(testFrame(), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("second capture overwrote %s", first)
	}
	if !strings.HasSuffix(second, "_1.png") {
		t.Errorf("unexpected collision name %s", second)
	}
}

func TestCaptureFrame_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "shots")
	sc, err := NewScreenshotCapture(dir, "shot", FormatPNG)
	if err != nil {
		t.Fatal(err)
	}

	path, err := sc.CaptureFrame(testFrame(), 2, 2)
	if err != nil {
		t.Fatalf("CaptureFrame failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("screenshot written to %s, want directory %s", path, dir)
	}
}

func TestNewScreenshotCapture_UnknownFormat(t *testing.T) {
	if _, err := NewScreenshotCapture("", "shot", "gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestSaveImage_UnknownExtension(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	err := SaveImage(filepath.Join(t.TempDir(), "out.tiff"), img)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
