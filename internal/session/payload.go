package session

import (
	"gonum.org/v1/gonum/mat"

	"github.com/relabs-tech/inertial_sessions/internal/orientation"
)

// linearColumns is the column range [from, to) interpolated linearly by
// Resample. Everything else except the timestamp is an orientation payload.
func linearColumns(t MessageType) (from, to int) {
	switch t {
	case TypeQuaternion, TypeRotationMatrix, TypeEulerAngles:
		return 0, 0
	case TypeLinearAcceleration, TypeEarthAcceleration:
		return 5, 8
	}
	return 1, t.Width()
}

// rotationAt decodes the orientation payload of a row.
func rotationAt(t MessageType, row []float64) orientation.Rotation {
	switch t {
	case TypeQuaternion, TypeLinearAcceleration, TypeEarthAcceleration:
		return orientation.FromWXYZ(row[1], row[2], row[3], row[4])
	case TypeRotationMatrix:
		return orientation.FromMatrix(mat.NewDense(3, 3, row[1:10:10]))
	case TypeEulerAngles:
		return orientation.FromEuler(row[1], row[2], row[3])
	}
	panic("session: " + t.String() + " has no orientation payload")
}

// putRotation encodes r into the orientation payload of row.
func putRotation(t MessageType, row []float64, r orientation.Rotation) {
	switch t {
	case TypeQuaternion, TypeLinearAcceleration, TypeEarthAcceleration:
		q := r.WXYZ()
		copy(row[1:5], q[:])
	case TypeRotationMatrix:
		copy(row[1:10], r.Matrix().RawMatrix().Data)
	case TypeEulerAngles:
		p := r.Euler()
		row[1], row[2], row[3] = p.Roll, p.Pitch, p.Yaw
	default:
		panic("session: " + t.String() + " has no orientation payload")
	}
}
