// Package framebuffer presents pixel buffers through OpenGL framebuffer
// objects.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/tangent/internal/engine/present"
)

// Target is a window with an OpenGL context.
type Target interface {
	present.Target
	MakeCurrent() error
	SwapBuffers()
}

// Surface uploads the pixel buffer into a texture attached to a read
// framebuffer and blits it onto the window's default framebuffer.
type Surface struct {
	target       Target
	fbo          uint32
	colorTexture uint32
	width        int
	height       int
	pix          []uint32
}

// Factory is a present.Factory for windows implementing Target. The OpenGL
// function pointers must already be loaded.
func Factory(target present.Target) (present.Surface, error) {
	glTarget, ok := target.(Target)
	if !ok {
		return nil, fmt.Errorf("%w: window %d has no OpenGL context", present.ErrNoContext, target.ID())
	}
	return New(glTarget)
}

// New creates the framebuffer objects for target.
func New(target Target) (*Surface, error) {
	if err := target.MakeCurrent(); err != nil {
		return nil, fmt.Errorf("%w: %v", present.ErrNoContext, err)
	}

	s := &Surface{target: target}
	gl.GenFramebuffers(1, &s.fbo)
	gl.GenTextures(1, &s.colorTexture)

	gl.BindTexture(gl.TEXTURE_2D, s.colorTexture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return s, nil
}

// Resize implements present.Surface. The color texture is reallocated only when the
// size changes; a 0x0 surface keeps no texture storage.
func (s *Surface) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", present.ErrInvalidSize, width, height)
	}
	if width == s.width && height == s.height && len(s.pix) == width*height {
		return nil
	}

	s.width, s.height = width, height
	s.pix = make([]uint32, width*height)
	if width == 0 || height == 0 {
		return nil
	}

	if err := s.target.MakeCurrent(); err != nil {
		return fmt.Errorf("%w: %v", present.ErrNoContext, err)
	}

	gl.BindTexture(gl.TEXTURE_2D, s.colorTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, s.fbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, s.colorTexture, 0)
	status := gl.CheckFramebufferStatus(gl.READ_FRAMEBUFFER)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

// Size implements present.Surface.
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// Pixels implements present.Surface.
func (s *Surface) Pixels() []uint32 {
	return s.pix
}

// Present implements present.Surface. Packed colors are little-endian R, G, B, X in
// memory, which uploads as RGBA bytes with the fourth byte dropped by the
// RGB8 texture.
func (s *Surface) Present() error {
	if s.width == 0 || s.height == 0 {
		return nil
	}
	if err := s.target.MakeCurrent(); err != nil {
		return fmt.Errorf("%w: %v", present.ErrNoContext, err)
	}

	w, h := int32(s.width), int32(s.height)

	gl.BindTexture(gl.TEXTURE_2D, s.colorTexture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(s.pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	// Row 0 of the buffer is the top of the window; GL's origin is bottom-left.
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, s.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, w, h, 0, h, w, 0, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("presenting frame: GL error 0x%x", code)
	}

	s.target.SwapBuffers()
	return nil
}

// Destroy releases the OpenGL objects.
func (s *Surface) Destroy() {
	if s.target != nil && s.target.MakeCurrent() != nil {
		// The context is already gone together with its objects.
		s.fbo, s.colorTexture = 0, 0
	}
	if s.fbo != 0 {
		gl.DeleteFramebuffers(1, &s.fbo)
		s.fbo = 0
	}
	if s.colorTexture != 0 {
		gl.DeleteTextures(1, &s.colorTexture)
		s.colorTexture = 0
	}
	s.pix = nil
	s.width, s.height = 0, 0
}
