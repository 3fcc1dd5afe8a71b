package component

import "github.com/go-gl/mathgl/mgl64"

type Transform struct {
	Position mgl64.Vec3
	Facing   float64
}

var TransformComponent = NewComponent[Transform]()
