// projtool is a CLI utility for tangent textures and offline renders.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/tangent/internal/config"
	"github.com/Faultbox/tangent/internal/engine/camera"
	"github.com/Faultbox/tangent/internal/engine/debug"
	"github.com/Faultbox/tangent/internal/engine/present"
	"github.com/Faultbox/tangent/internal/engine/projection"
	"github.com/Faultbox/tangent/internal/engine/texture"
	vmath "github.com/Faultbox/tangent/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "convert":
		cmdConvert(args)
	case "render":
		cmdRender(args)
	case "graticule":
		cmdGraticule(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`projtool - tangent-plane projection utility

Usage:
  projtool <command> [options]

Commands:
  info [-format raw|image] <file>         Show texture header
  convert [-max-width N] <image> <out>    Convert BMP/PNG/JPEG/TGA to a texture container
  render [options] <out.png|out.bmp>      Render one frame without a window
  graticule [-width W -height H] <out>    Write the built-in grid texture
  config [-force] [path]                  Write the default viewer config

Examples:
  projtool info world.bmp
  projtool convert -max-width 4096 earth.jpg earth.bmp
  projtool render -texture earth.bmp -scale 200 -azimuth 1.2 frame.png
  projtool graticule grid.bmp
  projtool config ./config.yaml`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	format := fs.String("format", texture.FormatRaw, "Texture format: raw or image")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: projtool info [-format raw|image] <file>")
		os.Exit(1)
	}

	tex, err := texture.Open(fs.Arg(0), *format, 0)
	if err != nil {
		fail(err)
	}

	h := tex.Header()
	fmt.Printf("File:        %s\n", fs.Arg(0))
	fmt.Printf("Length:      0x%x (%d bytes)\n", tex.Len(), tex.Len())
	fmt.Printf("Size field:  0x%x\n", h.FileSize)
	fmt.Printf("Data offset: 0x%x\n", h.PixelOffset)
	fmt.Printf("Width:       %d\n", h.Width)
	fmt.Printf("Height:      %d\n", h.Height)
	fmt.Printf("Texels:      %d\n", uint64(h.Width)*uint64(h.Height))
	if int(h.FileSize) != tex.Len() {
		fmt.Println("Warning:     size field disagrees with file length")
	}
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	maxWidth := fs.Int("max-width", 0, "Scale images wider than this down (0 = keep size)")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: projtool convert [-max-width N] <image> <out>")
		os.Exit(1)
	}

	tex, err := texture.Open(fs.Arg(0), texture.FormatImage, *maxWidth)
	if err != nil {
		fail(err)
	}
	if err := writeTexture(fs.Arg(1), tex); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", fs.Arg(1), tex.Width(), tex.Height())
}

// headless is a fixed-size draw target with no window behind it.
type headless struct {
	width, height int
}

func (h headless) ID() uint32               { return 1 }
func (h headless) DrawableSize() (int, int) { return h.width, h.height }

func cmdRender(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	texPath := fs.String("texture", "", "Texture path (default: graticule)")
	format := fs.String("format", texture.FormatRaw, "Texture format: raw or image")
	width := fs.Int("width", 640, "Frame width")
	height := fs.Int("height", 320, "Frame height")
	scale := fs.Float64("scale", camera.DefaultInitialScale, "Tangent-plane scale")
	panX := fs.Float64("pan-x", 0, "Horizontal pan in pixels")
	panY := fs.Float64("pan-y", 0, "Vertical pan in pixels")
	azimuth := fs.Float64("azimuth", 0, "Azimuth rotation in radians")
	declination := fs.Float64("declination", 0, "Declination rotation in radians")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: projtool render [options] <out.png|out.bmp>")
		os.Exit(1)
	}
	if *width <= 0 || *height <= 0 {
		fail(fmt.Errorf("frame size must be positive, got %dx%d", *width, *height))
	}

	var (
		tex *texture.Asset
		err error
	)
	if *texPath == "" {
		tex, err = texture.Graticule(720, 360)
	} else {
		tex, err = texture.Open(*texPath, *format, 0)
	}
	if err != nil {
		fail(err)
	}

	cam := camera.New(camera.Config{InitialScale: float32(*scale)})
	cam.Pan = vmath.Vec2{X: float32(*panX), Y: float32(*panY)}
	cam.Rotation = vmath.Vec2{X: float32(*azimuth), Y: float32(*declination)}

	surface := present.NewMemorySurface()
	surfaces := present.NewRegistry(func(present.Target) (present.Surface, error) {
		return surface, nil
	})
	defer surfaces.Close()

	target := headless{width: *width, height: *height}
	err = surfaces.Draw(target, func(pix []uint32, w, h int) {
		projection.Render(pix, w, h, cam, tex)
	})
	if err != nil {
		fail(err)
	}

	img, err := debug.FrameImage(surface.Front(), *width, *height)
	if err != nil {
		fail(err)
	}
	if err := debug.SaveImage(fs.Arg(0), img); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", fs.Arg(0), *width, *height)
}

func cmdGraticule(args []string) {
	fs := flag.NewFlagSet("graticule", flag.ExitOnError)
	width := fs.Int("width", 720, "Texture width")
	height := fs.Int("height", 360, "Texture height")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: projtool graticule [-width W -height H] <out>")
		os.Exit(1)
	}

	tex, err := texture.Graticule(*width, *height)
	if err != nil {
		fail(err)
	}
	if err := writeTexture(fs.Arg(0), tex); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", fs.Arg(0), tex.Width(), tex.Height())
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	force := fs.Bool("force", false, "Replace an existing config file")
	fs.Parse(args)

	path, err := config.WriteDefault(fs.Arg(0), *force)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %s\n", path)
}

func writeTexture(path string, tex *texture.Asset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := texture.Encode(f, tex); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
