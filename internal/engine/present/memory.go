package present

// MemorySurface is a heap-backed surface. Present copies the buffer into a
// front buffer that can be inspected afterwards.
type MemorySurface struct {
	width, height int
	pix           []uint32
	front         []uint32
	presents      int
	destroyed     bool
}

// NewMemorySurface returns an empty 0x0 surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

// MemoryFactory is a Factory producing MemorySurfaces.
func MemoryFactory(Target) (Surface, error) {
	return NewMemorySurface(), nil
}

// Resize implements Surface.
func (s *MemorySurface) Resize(width, height int) error {
	if err := checkSize(width, height); err != nil {
		return err
	}
	if width == s.width && height == s.height && len(s.pix) == width*height {
		return nil
	}
	s.width, s.height = width, height
	s.pix = make([]uint32, width*height)
	return nil
}

// Size implements Surface.
func (s *MemorySurface) Size() (int, int) {
	return s.width, s.height
}

// Pixels implements Surface.
func (s *MemorySurface) Pixels() []uint32 {
	return s.pix
}

// Present implements Surface.
func (s *MemorySurface) Present() error {
	if len(s.front) != len(s.pix) {
		s.front = make([]uint32, len(s.pix))
	}
	copy(s.front, s.pix)
	s.presents++
	return nil
}

// Destroy implements Surface.
func (s *MemorySurface) Destroy() {
	s.pix = nil
	s.front = nil
	s.width, s.height = 0, 0
	s.destroyed = true
}

// Front returns the last presented frame.
func (s *MemorySurface) Front() []uint32 {
	return s.front
}

// Presents returns how many frames have been presented.
func (s *MemorySurface) Presents() int {
	return s.presents
}

// Destroyed reports whether Destroy has been called.
func (s *MemorySurface) Destroyed() bool {
	return s.destroyed
}
