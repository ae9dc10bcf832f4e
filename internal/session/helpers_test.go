package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/inertial_sessions/internal/orientation"
)

func mustTable(t *testing.T, mt MessageType, rows [][]float64) Table {
	t.Helper()
	var text []string
	if mt.HasText() {
		text = make([]string, len(rows))
		for i := range text {
			text[i] = "event"
		}
	}
	table, err := NewTable(mt.Width(), rows, text)
	require.NoError(t, err)
	return table
}

func mustDevice(t *testing.T, name string, streams map[MessageType][][]float64) Device {
	t.Helper()
	tables := make(map[MessageType]Table, len(streams))
	for mt, rows := range streams {
		tables[mt] = mustTable(t, mt, rows)
	}
	d, err := NewDevice(Identity{DeviceName: name}, nil, tables)
	require.NoError(t, err)
	return d
}

// inertialRows produces rows at the given timestamps with every data
// column equal to the timestamp in seconds.
func inertialRows(ts ...float64) [][]float64 {
	rows := make([][]float64, len(ts))
	for i, x := range ts {
		rows[i] = []float64{x, x / 1e6, x / 1e6, x / 1e6, x / 1e6, x / 1e6, x / 1e6}
	}
	return rows
}

func quaternionRows(samples map[float64]orientation.Pose, ts ...float64) [][]float64 {
	rows := make([][]float64, len(ts))
	for i, x := range ts {
		q := samples[x].Rotation().WXYZ()
		rows[i] = []float64{x, q[0], q[1], q[2], q[3]}
	}
	return rows
}

func eulerRow(ts float64, p orientation.Pose) []float64 {
	return []float64{ts, p.Roll, p.Pitch, p.Yaw}
}

func bounds(t *testing.T, d Device) (float64, float64) {
	t.Helper()
	first, ok := d.FirstTimestamp()
	require.True(t, ok)
	last, ok := d.LastTimestamp()
	require.True(t, ok)
	return first, last
}
