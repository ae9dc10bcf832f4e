package imu

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/inertial_sessions/internal/session"
)

func inertial(t *testing.T) session.Inertial {
	table, err := session.NewTable(session.TypeInertial.Width(), [][]float64{
		{0, 1, 2, 3, 0, 0, 1},
		{1000, 4, 5, 6, 0.1, 0.2, 0.9},
	}, nil)
	require.NoError(t, err)
	d, err := session.NewDevice(session.Identity{}, nil, map[session.MessageType]session.Table{session.TypeInertial: table})
	require.NoError(t, err)
	return d.Inertial()
}

func TestReplaySource(t *testing.T) {
	src := NewReplaySource("left", inertial(t), false)

	s, err := src.NextSample()
	require.NoError(t, err)
	require.Equal(t, Sample{Device: "left", Gx: 1, Gy: 2, Gz: 3, Az: 1}, s)

	s, err = src.NextSample()
	require.NoError(t, err)
	require.Equal(t, 1000.0, s.Timestamp)
	require.Equal(t, 0.9, s.Az)

	_, err = src.NextSample()
	require.ErrorIs(t, err, io.EOF)
}

func TestReplaySourceLoop(t *testing.T) {
	src := NewReplaySource("left", inertial(t), true)
	var ts []float64
	for i := 0; i < 5; i++ {
		s, err := src.NextSample()
		require.NoError(t, err)
		ts = append(ts, s.Timestamp)
	}
	require.Equal(t, []float64{0, 1000, 0, 1000, 0}, ts)

	empty := NewReplaySource("none", session.Inertial{Table: session.EmptyTable(7)}, true)
	_, err := empty.NextSample()
	require.ErrorIs(t, err, io.EOF)
}
