package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns the object-to-world matrix T * R * S.
func (t Transform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}

// NormalMatrix is the inverse transpose of the model matrix, needed because
// rocks carry non-uniform scale.
func (t Transform) NormalMatrix() mgl32.Mat4 {
	invScale := mgl32.Scale3D(1.0/t.Scale.X(), 1.0/t.Scale.Y(), 1.0/t.Scale.Z())
	return t.Rotation.Mat4().Mul4(invScale)
}

// Apply transforms a local-space point into world space.
func (t Transform) Apply(p mgl32.Vec3) mgl32.Vec3 {
	return t.Matrix().Mul4x1(p.Vec4(1)).Vec3()
}
