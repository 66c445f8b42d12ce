package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type MVec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v *MVec3) Added(other *MVec3) *MVec3 {
	return &MVec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v *MVec3) Subed(other *MVec3) *MVec3 {
	return &MVec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

func (v *MVec3) MuledScalar(s float64) *MVec3 {
	return &MVec3{v.X * s, v.Y * s, v.Z * s}
}

func (v *MVec3) Dot(other *MVec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v *MVec3) Cross(other *MVec3) *MVec3 {
	return &MVec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

func (v *MVec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v *MVec3) Distance(other *MVec3) float64 {
	return v.Subed(other).Length()
}

func (v *MVec3) Normalized() *MVec3 {
	l := v.Length()
	if l == 0 {
		return &MVec3{}
	}
	return v.MuledScalar(1 / l)
}

func (v *MVec3) Lerp(other *MVec3, t float64) *MVec3 {
	return &MVec3{
		Lerp(v.X, other.X, t),
		Lerp(v.Y, other.Y, t),
		Lerp(v.Z, other.Z, t),
	}
}

func (v *MVec3) Copy() *MVec3 {
	return &MVec3{v.X, v.Y, v.Z}
}

func (v *MVec3) vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromVec(v mgl64.Vec3) *MVec3 {
	return &MVec3{v.X(), v.Y(), v.Z()}
}
