// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package session

import (
	"fmt"
	"math"
)

// RangeError reports a crop window that cannot overlap any data.
type RangeError struct {
	// Bound is "start" or "stop".
	Bound     string
	Requested float64
	// Data is the last timestamp for a start error and the first
	// timestamp for a stop error.
	Data float64
}

func (e *RangeError) Error() string {
	if e.Bound == "start" {
		return fmt.Sprintf("start %.0f is after last timestamp %.0f", e.Requested, e.Data)
	}
	return fmt.Sprintf("stop %.0f is before first timestamp %.0f", e.Requested, e.Data)
}

// NoStop is the default stop for Crop: keep everything after start.
const NoStop = math.MaxInt64

// Crop keeps the rows of every stream whose timestamp lies in [start, stop].
// Devices are returned unchanged when none of them has data. A window that
// lies entirely before or after the data is a *RangeError.
func Crop(devices []Device, start, stop int64) ([]Device, error) {
	firsts, lasts := boundsOf(devices)
	if len(firsts) == 0 {
		return devices, nil
	}

	lo, hi := float64(start), float64(stop)
	if last := maxOf(lasts); lo > last {
		return nil, &RangeError{Bound: "start", Requested: lo, Data: last}
	}
	if first := minOf(firsts); hi < first {
		return nil, &RangeError{Bound: "stop", Requested: hi, Data: first}
	}

	keep := func(ts float64) bool { return ts >= lo && ts <= hi }
	return mapDevices(devices, func(d Device) Device {
		streams := make(map[MessageType]Table, numMessageTypes)
		for _, t := range AllMessageTypes() {
			streams[t] = d.streams[t].filter(keep)
		}
		return d.WithStreams(streams)
	}), nil
}
