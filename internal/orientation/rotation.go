// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Rotation is a 3-D rotation stored as a unit quaternion.
//
// Euler angles follow the intrinsic Z-Y-X convention: yaw about Z, then
// pitch about the new Y, then roll about the new X. Matrices are row-major
// and rotate column vectors from the sensor frame to the earth frame.
type Rotation struct {
	q quat.Number
}

// Identity returns the rotation that leaves every vector unchanged.
func Identity() Rotation {
	return Rotation{q: quat.Number{Real: 1}}
}

// FromQuat normalises q. A zero quaternion maps to the identity.
func FromQuat(q quat.Number) Rotation {
	n := quat.Abs(q)
	if n == 0 {
		return Identity()
	}
	return Rotation{q: quat.Scale(1/n, q)}
}

// FromWXYZ builds a rotation from quaternion components in w, x, y, z order.
func FromWXYZ(w, x, y, z float64) Rotation {
	return FromQuat(quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z})
}

// FromEuler builds a rotation from roll, pitch and yaw in degrees.
func FromEuler(roll, pitch, yaw float64) Rotation {
	cr, sr := math.Cos(roll*degToRad/2), math.Sin(roll*degToRad/2)
	cp, sp := math.Cos(pitch*degToRad/2), math.Sin(pitch*degToRad/2)
	cy, sy := math.Cos(yaw*degToRad/2), math.Sin(yaw*degToRad/2)

	return FromQuat(quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	})
}

// FromYaw is a pure rotation about Z by deg degrees.
func FromYaw(deg float64) Rotation {
	h := deg * degToRad / 2
	return Rotation{q: quat.Number{Real: math.Cos(h), Kmag: math.Sin(h)}}
}

// FromMatrix converts a 3x3 rotation matrix using Shepperd's method, which
// picks the numerically largest quaternion component as pivot.
func FromMatrix(m mat.Matrix) Rotation {
	r, c := m.Dims()
	if r != 3 || c != 3 {
		panic(mat.ErrShape)
	}
	var v [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v[3*i+j] = m.At(i, j)
		}
	}
	return fromRowMajor(v[:])
}

func fromRowMajor(v []float64) Rotation {
	xx, xy, xz := v[0], v[1], v[2]
	yx, yy, yz := v[3], v[4], v[5]
	zx, zy, zz := v[6], v[7], v[8]

	trace := xx + yy + zz
	var q quat.Number
	switch {
	case trace >= xx && trace >= yy && trace >= zz:
		s := 2 * math.Sqrt(1+trace)
		q = quat.Number{Real: s / 4, Imag: (zy - yz) / s, Jmag: (xz - zx) / s, Kmag: (yx - xy) / s}
	case xx >= yy && xx >= zz:
		s := 2 * math.Sqrt(1+xx-yy-zz)
		q = quat.Number{Real: (zy - yz) / s, Imag: s / 4, Jmag: (xy + yx) / s, Kmag: (xz + zx) / s}
	case yy >= zz:
		s := 2 * math.Sqrt(1+yy-xx-zz)
		q = quat.Number{Real: (xz - zx) / s, Imag: (xy + yx) / s, Jmag: s / 4, Kmag: (yz + zy) / s}
	default:
		s := 2 * math.Sqrt(1+zz-xx-yy)
		q = quat.Number{Real: (yx - xy) / s, Imag: (xz + zx) / s, Jmag: (yz + zy) / s, Kmag: s / 4}
	}
	return FromQuat(q)
}

// WXYZ returns the quaternion components in w, x, y, z order.
func (r Rotation) WXYZ() [4]float64 {
	return [4]float64{r.q.Real, r.q.Imag, r.q.Jmag, r.q.Kmag}
}

// Euler returns roll, pitch and yaw in degrees. Pitch is clamped to ±90°
// at gimbal lock.
func (r Rotation) Euler() Pose {
	w, x, y, z := r.q.Real, r.q.Imag, r.q.Jmag, r.q.Kmag

	sinp := 2 * (w*y - z*x)
	if sinp > 1 {
		sinp = 1
	} else if sinp < -1 {
		sinp = -1
	}

	return Pose{
		Roll:  math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y)) * radToDeg,
		Pitch: math.Asin(sinp) * radToDeg,
		Yaw:   math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z)) * radToDeg,
	}
}

// Heading is the yaw component in degrees, in (-180, 180].
func (r Rotation) Heading() float64 {
	return r.Euler().Yaw
}

// rowMajor returns the rotation matrix entries xx, xy, xz, yx, ... zz.
func (r Rotation) rowMajor() [9]float64 {
	w, x, y, z := r.q.Real, r.q.Imag, r.q.Jmag, r.q.Kmag
	return [9]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	}
}

// Matrix returns the 3x3 rotation matrix. Its backing data is row-major.
func (r Rotation) Matrix() *mat.Dense {
	v := r.rowMajor()
	return mat.NewDense(3, 3, v[:])
}

// Mul composes two rotations: the result applies o first, then r.
func (r Rotation) Mul(o Rotation) Rotation {
	return FromQuat(quat.Mul(r.q, o.q))
}

// Angle returns the rotation angle between r and o in degrees, in [0, 180].
func (r Rotation) Angle(o Rotation) float64 {
	return 2 * halfAngle(r.q, o.q) * radToDeg
}

// halfAngle is half the angle of the relative rotation conj(a)*b in
// radians, in [0, pi/2].
func halfAngle(a, b quat.Number) float64 {
	d := quat.Mul(quat.Conj(a), b)
	return math.Atan2(math.Sqrt(d.Imag*d.Imag+d.Jmag*d.Jmag+d.Kmag*d.Kmag), math.Abs(d.Real))
}

// Slerp interpolates from a (t=0) to b (t=1) along the shortest arc.
func Slerp(a, b Rotation, t float64) Rotation {
	qa, qb := a.q, b.q
	d := dot(qa, qb)
	if d < 0 {
		qb = quat.Scale(-1, qb)
		d = -d
	}

	// Nearly parallel: the linear blend is accurate and avoids dividing
	// by sin(theta) ~ 0.
	if d > 0.9995 {
		return FromQuat(quat.Add(quat.Scale(1-t, qa), quat.Scale(t, qb)))
	}

	theta := halfAngle(qa, qb)
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return FromQuat(quat.Add(quat.Scale(wa, qa), quat.Scale(wb, qb)))
}

func dot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}
