// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"io"
)

// StampedPose is a pose with its timestamp in microseconds.
type StampedPose struct {
	Timestamp float64 `json:"timestamp"`
	Pose
}

type streamSource struct {
	samples []StampedPose
	next    int
	loop    bool
}

// NewStreamSource replays recorded poses in order. When loop is set the
// source starts over instead of returning io.EOF.
func NewStreamSource(samples []StampedPose, loop bool) Source {
	return &streamSource{samples: samples, loop: loop}
}

func (s *streamSource) Next() (Pose, error) {
	if s.next >= len(s.samples) {
		if !s.loop || len(s.samples) == 0 {
			return Pose{}, io.EOF
		}
		s.next = 0
	}
	p := s.samples[s.next].Pose
	s.next++
	return p, nil
}
