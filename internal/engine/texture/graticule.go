package texture

// Graticule colors.
var (
	graticuleNorth    = [3]byte{28, 64, 140}
	graticuleSouth    = [3]byte{30, 112, 64}
	graticuleLine     = [3]byte{230, 230, 230}
	graticuleEquator  = [3]byte{220, 40, 40}
	graticuleMeridian = [3]byte{240, 200, 40}
)

// Graticule generates a latitude/longitude grid: one line every 15°, the
// equator in red, the prime meridian in yellow, the northern hemisphere blue
// and the southern one green. It stands in for a world map when no texture is
// configured.
func Graticule(width, height int) (*Asset, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}

	// 24 meridians across 360°, 12 parallels across 180°.
	colStep := max(width/24, 1)
	rowStep := max(height/12, 1)

	rgb := make([]byte, 0, BytesPerTexel*width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			c := graticuleSouth
			if row < height/2 {
				c = graticuleNorth
			}
			switch {
			case row == height/2:
				c = graticuleEquator
			case col == 0:
				c = graticuleMeridian
			case row%rowStep == 0 || col%colStep == 0:
				c = graticuleLine
			}
			rgb = append(rgb, c[0], c[1], c[2])
		}
	}

	return New(width, height, rgb)
}
