// Package frame implements Surface Geometry (spec.md §4.B): computing
// per-surface origin/rotation frames from thicknesses and coordinate-break
// transforms, and the local<->global transforms built on them.
package frame

import (
	"math"

	"github.com/optikcore/optikcore/pkg/optik"
	"gonum.org/v1/gonum/mat"
)

// Mat3 is a 3x3 orthonormal rotation matrix. Composition is carried on
// gonum's *mat.Dense the way the pack's most numerically-serious repo
// (observerly/skysolve, which depends on gonum.org/v1/gonum) would: matrix
// multiplication via mat.Dense.Mul rather than hand-unrolled 3x3
// arithmetic.
type Mat3 struct {
	d *mat.Dense
}

func newMat3(vals [9]float64) Mat3 {
	return Mat3{d: mat.NewDense(3, 3, vals[:])}
}

// Identity3 returns the identity rotation.
func Identity3() Mat3 {
	return newMat3([9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

// Rx returns the rotation about the X axis by theta radians.
func Rx(theta float64) Mat3 {
	c, s := math.Cos(theta), math.Sin(theta)
	return newMat3([9]float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

// Ry returns the rotation about the Y axis by theta radians.
func Ry(theta float64) Mat3 {
	c, s := math.Cos(theta), math.Sin(theta)
	return newMat3([9]float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

// Rz returns the rotation about the Z axis by theta radians.
func Rz(theta float64) Mat3 {
	c, s := math.Cos(theta), math.Sin(theta)
	return newMat3([9]float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

// Mul returns m * other.
func (m Mat3) Mul(other Mat3) Mat3 {
	var result mat.Dense
	result.Mul(m.d, other.d)
	return Mat3{d: &result}
}

// Apply transforms a vector by the rotation: m*v.
func (m Mat3) Apply(v optik.Vec3) optik.Vec3 {
	return optik.NewVec3(
		m.d.At(0, 0)*v.X+m.d.At(0, 1)*v.Y+m.d.At(0, 2)*v.Z,
		m.d.At(1, 0)*v.X+m.d.At(1, 1)*v.Y+m.d.At(1, 2)*v.Z,
		m.d.At(2, 0)*v.X+m.d.At(2, 1)*v.Y+m.d.At(2, 2)*v.Z,
	)
}

// Transpose returns the transpose of m, which equals its inverse for an
// orthonormal rotation matrix.
func (m Mat3) Transpose() Mat3 {
	return newMat3([9]float64{
		m.d.At(0, 0), m.d.At(1, 0), m.d.At(2, 0),
		m.d.At(0, 1), m.d.At(1, 1), m.d.At(2, 1),
		m.d.At(0, 2), m.d.At(1, 2), m.d.At(2, 2),
	})
}

// ApplyInverse transforms v by the inverse rotation (equivalent to
// m.Transpose().Apply(v) but avoids allocating the transpose).
func (m Mat3) ApplyInverse(v optik.Vec3) optik.Vec3 {
	return optik.NewVec3(
		m.d.At(0, 0)*v.X+m.d.At(1, 0)*v.Y+m.d.At(2, 0)*v.Z,
		m.d.At(0, 1)*v.X+m.d.At(1, 1)*v.Y+m.d.At(2, 1)*v.Z,
		m.d.At(0, 2)*v.X+m.d.At(1, 2)*v.Y+m.d.At(2, 2)*v.Z,
	)
}

// At returns the (i,j) entry of the matrix, for tests and diagnostics.
func (m Mat3) At(i, j int) float64 {
	return m.d.At(i, j)
}
