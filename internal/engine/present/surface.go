// Package present commits filled pixel buffers to windows.
//
// A Registry keeps one Surface per window identity. Surfaces are created on
// the first draw for a window, resized on every draw to the window's current
// drawable size and destroyed when the window is released.
package present

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize is returned when a surface is asked for a negative size.
	ErrInvalidSize = errors.New("present: invalid surface size")
	// ErrNoContext is returned when a window has no usable presentation context.
	ErrNoContext = errors.New("present: no presentation context")
)

// Target identifies a window that can be drawn to.
type Target interface {
	ID() uint32
	DrawableSize() (width, height int)
}

// Surface is a presentable pixel buffer of packed 0x00BBGGRR colors.
type Surface interface {
	// Resize makes the buffer exactly width*height elements. Any change of
	// size yields a zeroed buffer.
	Resize(width, height int) error
	Size() (width, height int)
	Pixels() []uint32
	// Present makes the current buffer visible.
	Present() error
	Destroy()
}

// Factory creates the surface for a window seen for the first time.
type Factory func(target Target) (Surface, error)

// FillFunc writes every element of pix, laid out row-major at j*width+i.
type FillFunc func(pix []uint32, width, height int)

// Registry owns the surfaces of all live windows.
type Registry struct {
	factory  Factory
	surfaces map[uint32]Surface
}

// NewRegistry creates an empty registry that builds surfaces with factory.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory:  factory,
		surfaces: make(map[uint32]Surface),
	}
}

// Lookup returns the surface for target, creating it on first use.
func (r *Registry) Lookup(target Target) (Surface, error) {
	id := target.ID()
	if s, ok := r.surfaces[id]; ok {
		return s, nil
	}
	if r.factory == nil {
		return nil, ErrNoContext
	}

	s, err := r.factory(target)
	if err != nil {
		return nil, fmt.Errorf("creating surface for window %d: %w", id, err)
	}
	r.surfaces[id] = s
	return s, nil
}

// Draw resizes the surface of target to the window's drawable size, lets fill
// write the whole buffer and presents it. A frame is never presented partially
// filled: a resize failure returns before fill runs.
func (r *Registry) Draw(target Target, fill FillFunc) error {
	s, err := r.Lookup(target)
	if err != nil {
		return err
	}

	width, height := target.DrawableSize()
	if err := s.Resize(width, height); err != nil {
		return fmt.Errorf("resizing surface to %dx%d: %w", width, height, err)
	}

	fill(s.Pixels(), width, height)

	if err := s.Present(); err != nil {
		return fmt.Errorf("presenting %dx%d frame: %w", width, height, err)
	}
	return nil
}

// Release destroys the surface of a closed window. Unknown ids are ignored.
func (r *Registry) Release(id uint32) {
	if s, ok := r.surfaces[id]; ok {
		s.Destroy()
		delete(r.surfaces, id)
	}
}

// Len returns the number of live surfaces.
func (r *Registry) Len() int {
	return len(r.surfaces)
}

// Close destroys every surface.
func (r *Registry) Close() {
	for id := range r.surfaces {
		r.Release(id)
	}
}

func checkSize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return nil
}
