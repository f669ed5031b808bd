package main

import "fmt"

// Orientation selects which half of the screen a plane is projected onto.
type Orientation int

const (
	// Floor planes land below the horizon.
	Floor Orientation = iota
	// Ceiling planes land above the horizon, mirrored vertically.
	Ceiling
)

func (o Orientation) String() string {
	switch o {
	case Floor:
		return "floor"
	case Ceiling:
		return "ceiling"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// Plane is a textured ground or ceiling surface. Each plane carries its own
// near and far distances because planes can be framed differently by the
// same camera.
type Plane struct {
	texture     *TextureBuffer
	near        float64
	far         float64
	orientation Orientation
}

// newPlane takes ownership of tex.
func newPlane(tex *TextureBuffer, near, far float64, orientation Orientation) (*Plane, error) {
	if tex == nil {
		return nil, fmt.Errorf("%w: plane has no texture", ErrTextureLoad)
	}
	if err := checkDistances(near, far); err != nil {
		return nil, err
	}
	return &Plane{texture: tex, near: near, far: far, orientation: orientation}, nil
}

// loadPlane reads the texture at path and builds a plane around it.
func loadPlane(path string, near, far float64, orientation Orientation) (*Plane, error) {
	tex, err := loadTexture(path)
	if err != nil {
		return nil, err
	}
	return newPlane(tex, near, far, orientation)
}

func checkDistances(near, far float64) error {
	if !(near > 0) {
		return fmt.Errorf("%w: near distance %g must be positive", ErrInvalidConfig, near)
	}
	if !(near < far) {
		return fmt.Errorf("%w: near distance %g must be less than far distance %g", ErrInvalidConfig, near, far)
	}
	return nil
}

// SetDistances replaces the near and far distances, keeping 0 < near < far.
func (p *Plane) SetDistances(near, far float64) error {
	if err := checkDistances(near, far); err != nil {
		return err
	}
	p.near, p.far = near, far
	return nil
}

// Near returns the near-plane distance in world units.
func (p *Plane) Near() float64 { return p.near }

// Far returns the far-plane distance in world units.
func (p *Plane) Far() float64 { return p.far }

// Orientation reports whether the plane renders as floor or ceiling.
func (p *Plane) Orientation() Orientation { return p.orientation }

// Texture returns the owned texture, or nil after Destroy.
func (p *Plane) Texture() *TextureBuffer { return p.texture }

// Destroy releases the owned texture. Further calls are no-ops.
func (p *Plane) Destroy() {
	p.texture = nil
}
