package imu

import (
	"io"

	"github.com/relabs-tech/inertial_sessions/internal/session"
)

// Sample is one inertial reading replayed from a session.
type Sample struct {
	Device    string  `json:"device"`
	Timestamp float64 `json:"timestamp"` // microseconds

	Gx float64 `json:"gx"` // gyro, deg/s
	Gy float64 `json:"gy"`
	Gz float64 `json:"gz"`

	Ax float64 `json:"ax"` // accel, g
	Ay float64 `json:"ay"`
	Az float64 `json:"az"`
}

// SampleAt returns row i of an Inertial stream.
func SampleAt(device string, in session.Inertial, i int) Sample {
	r := in.Row(i)
	return Sample{
		Device:    device,
		Timestamp: r[0],
		Gx:        r[1],
		Gy:        r[2],
		Gz:        r[3],
		Ax:        r[4],
		Ay:        r[5],
		Az:        r[6],
	}
}

// SampleSource yields inertial samples in order. NextSample returns io.EOF
// once a finite source is exhausted.
type SampleSource interface {
	NextSample() (Sample, error)
}

type replaySource struct {
	device string
	in     session.Inertial
	next   int
	loop   bool
}

// NewReplaySource replays a recorded Inertial stream.
func NewReplaySource(device string, in session.Inertial, loop bool) SampleSource {
	return &replaySource{device: device, in: in, loop: loop}
}

func (s *replaySource) NextSample() (Sample, error) {
	if s.next >= s.in.Len() {
		if !s.loop || s.in.Empty() {
			return Sample{}, io.EOF
		}
		s.next = 0
	}
	sample := SampleAt(s.device, s.in, s.next)
	s.next++
	return sample, nil
}
