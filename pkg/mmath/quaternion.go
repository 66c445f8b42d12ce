package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MQuaternion はmgl64.Quatの薄いラッパー。W, V([x y z])を持つ。
type MQuaternion mgl64.Quat

func NewMQuaternion() *MQuaternion {
	q := MQuaternion(mgl64.QuatIdent())
	return &q
}

// NewMQuaternionFromAxisAngle は軸まわりの回転(ラジアン)を作る
func NewMQuaternionFromAxisAngle(axis *MVec3, angle float64) *MQuaternion {
	q := MQuaternion(mgl64.QuatRotate(angle, axis.vec()))
	return &q
}

// NewMQuaternionByValues は成分から四元数を作る
func NewMQuaternionByValues(x, y, z, w float64) *MQuaternion {
	return &MQuaternion{W: w, V: mgl64.Vec3{x, y, z}}
}

// NewMQuaternionRotate はfromをtoへ向ける最小回転を作る
func NewMQuaternionRotate(from, to *MVec3) *MQuaternion {
	q := MQuaternion(mgl64.QuatBetweenVectors(from.vec(), to.vec()))
	return &q
}

func (q *MQuaternion) quat() mgl64.Quat {
	return mgl64.Quat(*q)
}

func (q *MQuaternion) Mul(other *MQuaternion) *MQuaternion {
	r := MQuaternion(q.quat().Mul(other.quat()))
	return &r
}

func (q *MQuaternion) Inverted() *MQuaternion {
	r := MQuaternion(q.quat().Inverse())
	return &r
}

func (q *MQuaternion) Normalized() *MQuaternion {
	r := MQuaternion(q.quat().Normalize())
	return &r
}

func (q *MQuaternion) Dot(other *MQuaternion) float64 {
	return q.quat().Dot(other.quat())
}

func (q *MQuaternion) Slerp(other *MQuaternion, t float64) *MQuaternion {
	r := MQuaternion(mgl64.QuatSlerp(q.quat(), other.quat(), t))
	return &r
}

func (q *MQuaternion) MulVec3(v *MVec3) *MVec3 {
	return fromVec(q.quat().Rotate(v.vec()))
}

// Negated は符号を反転した同値の四元数を返す(二重被覆の反対側)
func (q *MQuaternion) Negated() *MQuaternion {
	return &MQuaternion{W: -q.W, V: mgl64.Vec3{-q.V[0], -q.V[1], -q.V[2]}}
}

// AngleTo は2つの回転の間の角度(ラジアン)を返す
func (q *MQuaternion) AngleTo(other *MQuaternion) float64 {
	d := math.Abs(q.Dot(other))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

func (q *MQuaternion) Copy() *MQuaternion {
	r := *q
	return &r
}
