package session

import (
	"github.com/relabs-tech/inertial_sessions/internal/orientation"
)

// eulerSources is the order in which ConvertToEulerAngles looks for an
// orientation stream.
var eulerSources = []MessageType{
	TypeQuaternion,
	TypeRotationMatrix,
	TypeLinearAcceleration,
	TypeEarthAcceleration,
}

// ConvertToEulerAngles replaces each device's EulerAngles stream with one
// derived from the first non-empty orientation stream in eulerSources,
// keeping that stream's timestamps. Devices without any such stream keep
// their recorded Euler angles.
func ConvertToEulerAngles(devices []Device) []Device {
	return mapDevices(devices, func(d Device) Device {
		for _, t := range eulerSources {
			src := d.streams[t]
			if src.Empty() {
				continue
			}
			return d.WithStream(TypeEulerAngles, eulerFrom(t, src))
		}
		return d
	})
}

func eulerFrom(t MessageType, src Table) Table {
	rows := make([][]float64, src.Len())
	for i, r := range src.Rows() {
		row := make([]float64, TypeEulerAngles.Width())
		row[0] = r[0]
		putRotation(TypeEulerAngles, row, rotationAt(t, r))
		rows[i] = row
	}
	table, err := NewTable(TypeEulerAngles.Width(), rows, nil)
	if err != nil {
		panic(err)
	}
	return table
}

// Poses returns the device's Euler stream as timestamped poses.
func Poses(d Device) []orientation.StampedPose {
	e := d.EulerAngles()
	out := make([]orientation.StampedPose, e.Len())
	for i := range out {
		out[i] = orientation.StampedPose{Timestamp: e.Row(i)[0], Pose: e.Pose(i)}
	}
	return out
}
