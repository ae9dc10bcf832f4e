// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package session

import (
	"gonum.org/v1/gonum/mat"

	"github.com/relabs-tech/inertial_sessions/internal/orientation"
)

// Message is a typed view over a Table. The set of implementations is
// closed: one view type per MessageType.
type Message interface {
	Type() MessageType
	Len() int
	Timestamp() []float64
	message()
}

// Xyz views three consecutive columns.
type Xyz struct {
	t   Table
	col int
}

func (v Xyz) X() []float64        { return v.t.Column(v.col) }
func (v Xyz) Y() []float64        { return v.t.Column(v.col + 1) }
func (v Xyz) Z() []float64        { return v.t.Column(v.col + 2) }
func (v Xyz) XYZ() [][]float64    { return v.t.Columns(v.col, 3) }
func (v Xyz) At(i int) [3]float64 { r := v.t.Row(i); return [3]float64{r[v.col], r[v.col+1], r[v.col+2]} }

// Wxyz views four consecutive quaternion columns.
type Wxyz struct {
	t   Table
	col int
}

func (v Wxyz) W() []float64      { return v.t.Column(v.col) }
func (v Wxyz) X() []float64      { return v.t.Column(v.col + 1) }
func (v Wxyz) Y() []float64      { return v.t.Column(v.col + 2) }
func (v Wxyz) Z() []float64      { return v.t.Column(v.col + 3) }
func (v Wxyz) WXYZ() [][]float64 { return v.t.Columns(v.col, 4) }

// Rotations converts every row to a unit rotation.
func (v Wxyz) Rotations() []orientation.Rotation {
	out := make([]orientation.Rotation, v.t.Len())
	for i, r := range v.t.Rows() {
		out[i] = orientation.FromWXYZ(r[v.col], r[v.col+1], r[v.col+2], r[v.col+3])
	}
	return out
}

type Inertial struct{ Table }

func (Inertial) Type() MessageType    { return TypeInertial }
func (m Inertial) Gyroscope() Xyz     { return Xyz{m.Table, 1} }
func (m Inertial) Accelerometer() Xyz { return Xyz{m.Table, 4} }

type Magnetometer struct{ Table }

func (Magnetometer) Type() MessageType   { return TypeMagnetometer }
func (m Magnetometer) Magnetometer() Xyz { return Xyz{m.Table, 1} }

type Quaternion struct{ Table }

func (Quaternion) Type() MessageType  { return TypeQuaternion }
func (m Quaternion) Quaternion() Wxyz { return Wxyz{m.Table, 1} }

// RotationMatrix holds a row-major 3x3 matrix per sample.
type RotationMatrix struct{ Table }

func (RotationMatrix) Type() MessageType { return TypeRotationMatrix }

// Matrix returns the nine row-major entries of every sample.
func (m RotationMatrix) Matrix() [][]float64 { return m.Columns(1, 9) }

func (m RotationMatrix) XX() []float64 { return m.Column(1) }
func (m RotationMatrix) XY() []float64 { return m.Column(2) }
func (m RotationMatrix) XZ() []float64 { return m.Column(3) }
func (m RotationMatrix) YX() []float64 { return m.Column(4) }
func (m RotationMatrix) YY() []float64 { return m.Column(5) }
func (m RotationMatrix) YZ() []float64 { return m.Column(6) }
func (m RotationMatrix) ZX() []float64 { return m.Column(7) }
func (m RotationMatrix) ZY() []float64 { return m.Column(8) }
func (m RotationMatrix) ZZ() []float64 { return m.Column(9) }

// Rotations converts every row to a unit rotation.
func (m RotationMatrix) Rotations() []orientation.Rotation {
	out := make([]orientation.Rotation, m.Len())
	for i, r := range m.Rows() {
		out[i] = orientation.FromMatrix(mat.NewDense(3, 3, r[1:10:10]))
	}
	return out
}

// EulerAngles holds roll, pitch and yaw in degrees.
type EulerAngles struct{ Table }

func (EulerAngles) Type() MessageType          { return TypeEulerAngles }
func (m EulerAngles) EulerAngles() [][]float64 { return m.Columns(1, 3) }
func (m EulerAngles) Roll() []float64          { return m.Column(1) }
func (m EulerAngles) Pitch() []float64         { return m.Column(2) }
func (m EulerAngles) Yaw() []float64           { return m.Column(3) }

// Pose returns sample i as a Pose.
func (m EulerAngles) Pose(i int) orientation.Pose {
	r := m.Row(i)
	return orientation.Pose{Roll: r[1], Pitch: r[2], Yaw: r[3]}
}

// Rotations converts every row to a unit rotation.
func (m EulerAngles) Rotations() []orientation.Rotation {
	out := make([]orientation.Rotation, m.Len())
	for i, r := range m.Rows() {
		out[i] = orientation.FromEuler(r[1], r[2], r[3])
	}
	return out
}

type LinearAcceleration struct{ Table }

func (LinearAcceleration) Type() MessageType         { return TypeLinearAcceleration }
func (m LinearAcceleration) Quaternion() Wxyz        { return Wxyz{m.Table, 1} }
func (m LinearAcceleration) LinearAcceleration() Xyz { return Xyz{m.Table, 5} }

type EarthAcceleration struct{ Table }

func (EarthAcceleration) Type() MessageType        { return TypeEarthAcceleration }
func (m EarthAcceleration) Quaternion() Wxyz       { return Wxyz{m.Table, 1} }
func (m EarthAcceleration) EarthAcceleration() Xyz { return Xyz{m.Table, 5} }

type AhrsStatus struct{ Table }

func (AhrsStatus) Type() MessageType                 { return TypeAhrsStatus }
func (m AhrsStatus) Initialising() []float64         { return m.Column(1) }
func (m AhrsStatus) AngularRateRecovery() []float64  { return m.Column(2) }
func (m AhrsStatus) AccelerationRecovery() []float64 { return m.Column(3) }
func (m AhrsStatus) MagneticRecovery() []float64     { return m.Column(4) }

type HighGAccelerometer struct{ Table }

func (HighGAccelerometer) Type() MessageType         { return TypeHighGAccelerometer }
func (m HighGAccelerometer) HighGAccelerometer() Xyz { return Xyz{m.Table, 1} }

type Temperature struct{ Table }

func (Temperature) Type() MessageType        { return TypeTemperature }
func (m Temperature) Temperature() []float64 { return m.Column(1) }

// ChargingStatus values as logged by the device.
const (
	NotConnected     = 0
	Charging         = 1
	ChargingComplete = 2
)

type Battery struct{ Table }

func (Battery) Type() MessageType           { return TypeBattery }
func (m Battery) Percentage() []float64     { return m.Column(1) }
func (m Battery) Voltage() []float64        { return m.Column(2) }
func (m Battery) ChargingStatus() []float64 { return m.Column(3) }

type Rssi struct{ Table }

func (Rssi) Type() MessageType       { return TypeRssi }
func (m Rssi) Percentage() []float64 { return m.Column(1) }
func (m Rssi) Power() []float64      { return m.Column(2) }

type SerialAccessory struct{ Table }

func (SerialAccessory) Type() MessageType { return TypeSerialAccessory }

// Channels returns the eight channel voltages of every sample.
func (m SerialAccessory) Channels() [][]float64 { return m.Columns(1, 8) }

type Notification struct{ Table }

func (Notification) Type() MessageType   { return TypeNotification }
func (m Notification) Strings() []string { return m.Text() }

type Error struct{ Table }

func (Error) Type() MessageType   { return TypeError }
func (m Error) Strings() []string { return m.Text() }

// View wraps a table in the view type matching t.
func View(t MessageType, table Table) Message {
	switch t {
	case TypeInertial:
		return Inertial{table}
	case TypeMagnetometer:
		return Magnetometer{table}
	case TypeQuaternion:
		return Quaternion{table}
	case TypeRotationMatrix:
		return RotationMatrix{table}
	case TypeEulerAngles:
		return EulerAngles{table}
	case TypeLinearAcceleration:
		return LinearAcceleration{table}
	case TypeEarthAcceleration:
		return EarthAcceleration{table}
	case TypeAhrsStatus:
		return AhrsStatus{table}
	case TypeHighGAccelerometer:
		return HighGAccelerometer{table}
	case TypeTemperature:
		return Temperature{table}
	case TypeBattery:
		return Battery{table}
	case TypeRssi:
		return Rssi{table}
	case TypeSerialAccessory:
		return SerialAccessory{table}
	case TypeNotification:
		return Notification{table}
	case TypeError:
		return Error{table}
	}
	return nil
}
