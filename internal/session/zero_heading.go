package session

import (
	"github.com/relabs-tech/inertial_sessions/internal/orientation"
)

// ZeroHeading rotates every orientation stream about the vertical axis so
// that the heading of the first sample at or after timestamp equals offset
// degrees. The correction applies from that sample onwards; earlier samples,
// pitch, roll and non-orientation columns are untouched.
func ZeroHeading(devices []Device, timestamp int64, offset float64) []Device {
	at := float64(timestamp)
	return mapDevices(devices, func(d Device) Device {
		streams := make(map[MessageType]Table)
		for _, t := range AllMessageTypes() {
			if !t.IsOrientation() || d.streams[t].Empty() {
				continue
			}
			if table, ok := zeroHeadingTable(t, d.streams[t], at, offset); ok {
				streams[t] = table
			}
		}
		if len(streams) == 0 {
			return d
		}
		return d.WithStreams(streams)
	})
}

func zeroHeadingTable(t MessageType, table Table, at, offset float64) (Table, bool) {
	rows := table.Rows()
	i := firstAtOrAfter(rows, at)
	if i < 0 {
		return table, false
	}

	yaw := orientation.FromYaw(offset - rotationAt(t, rows[i]).Heading())

	out := make([][]float64, len(rows))
	copy(out, rows[:i])
	for k := i; k < len(rows); k++ {
		row := append([]float64(nil), rows[k]...)
		putRotation(t, row, yaw.Mul(rotationAt(t, rows[k])))
		out[k] = row
	}

	zeroed, err := NewTable(t.Width(), out, nil)
	if err != nil {
		panic(err)
	}
	return zeroed, true
}

// firstAtOrAfter is the index of the first row, in storage order, whose
// timestamp is >= at, or -1. Timestamps need not be sorted.
func firstAtOrAfter(rows [][]float64, at float64) int {
	for i, r := range rows {
		if r[0] >= at {
			return i
		}
	}
	return -1
}
