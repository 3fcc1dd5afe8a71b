package main

// Rect is a screen-space box around a drawn actor.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

func (r *Rect) Intersects(other *Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Contains reports whether the point lies inside r.
func (r *Rect) Contains(x, y float32) bool {
	return r.Intersects(&Rect{X: x, Y: y, Width: 1, Height: 1})
}
