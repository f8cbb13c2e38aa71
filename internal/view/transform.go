// Package view maps pointer coordinates between screen space and canvas space.
package view

import (
	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	MinZoom  = 0.1
	MaxZoom  = 3.0
	ZoomStep = 0.1
)

// State is the pan offset and zoom factor of the visible surface.
// Zoom is kept within [MinZoom, MaxZoom] by every mutator.
type State struct {
	PanX float64
	PanY float64
	Zoom float64
}

// Identity returns a view with no pan and a zoom of 1.
func Identity() State {
	return State{Zoom: 1}
}

// Pan returns the pan offset as a vector.
func (s State) Pan() r2.Vec {
	return r2.Vec{X: s.PanX, Y: s.PanY}
}

// ZoomBy adds delta to the zoom factor and clamps the result.
func (s *State) ZoomBy(delta float64) {
	s.Zoom = ClampZoom(s.Zoom + delta)
}

// PanBy shifts the pan offset by d screen pixels.
func (s *State) PanBy(d r2.Vec) {
	s.PanX += d.X
	s.PanY += d.Y
}

// Affine returns the canvas-to-screen matrix for this view.
func (s State) Affine() f64.Aff3 {
	return f64.Aff3{
		s.Zoom, 0, s.PanX,
		0, s.Zoom, s.PanY,
	}
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// ToCanvasSpace converts a screen point to canvas coordinates: (p - pan) / zoom.
func ToCanvasSpace(p r2.Vec, s State) r2.Vec {
	d := r2.Sub(p, s.Pan())
	return r2.Vec{X: d.X / s.Zoom, Y: d.Y / s.Zoom}
}

// ToScreenSpace is the inverse of ToCanvasSpace: p * zoom + pan.
func ToScreenSpace(p r2.Vec, s State) r2.Vec {
	return r2.Add(r2.Scale(s.Zoom, p), s.Pan())
}
