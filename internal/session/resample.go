// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package session

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/relabs-tech/inertial_sessions/internal/orientation"
)

// ErrInvalidSampleRate is returned by Resample for a rate that is not a
// positive finite number.
var ErrInvalidSampleRate = errors.New("sample rate must be positive and finite")

// Resample moves every stream of every device onto one uniform timestamp
// grid spanning the window all devices have data for. Orientation payloads
// are slerped, all other columns are interpolated linearly. AhrsStatus,
// Notification and Error keep their own timestamps.
//
// Devices are returned unchanged if any of them has no data or the shared
// window is empty.
func Resample(devices []Device, sampleRate float64) ([]Device, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 1) {
		return nil, fmt.Errorf("resample at %v Hz: %w", sampleRate, ErrInvalidSampleRate)
	}

	firsts, lasts := boundsOf(devices)
	if len(firsts) == 0 || len(firsts) != len(devices) {
		return devices, nil
	}
	lo, hi := maxOf(firsts), minOf(lasts)
	if lo >= hi {
		return devices, nil
	}

	grid := Grid(lo, hi, sampleRate)
	return mapDevices(devices, func(d Device) Device {
		streams := make(map[MessageType]Table)
		for _, t := range AllMessageTypes() {
			if !t.IsResampled() || d.streams[t].Empty() {
				continue
			}
			streams[t] = resampleTable(t, d.streams[t], grid)
		}
		return d.WithStreams(streams)
	}), nil
}

// Grid returns lo, lo+step, ... strictly below hi, with step = 1e6/sampleRate
// microseconds.
func Grid(lo, hi, sampleRate float64) []float64 {
	step := 1e6 / sampleRate
	if !(hi > lo) || !(step > 0) {
		return nil
	}
	n := int(math.Ceil((hi - lo) / step))
	for n > 0 && lo+float64(n-1)*step >= hi {
		n--
	}
	for lo+float64(n)*step < hi {
		n++
	}
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = lo + float64(i)*step
	}
	return grid
}

func resampleTable(t MessageType, table Table, grid []float64) Table {
	rows := holdEdges(table.Rows(), grid)

	// Interpolation runs on seconds.
	xs, idx := knots(rows)
	at := make([]float64, len(grid))
	for i, g := range grid {
		at[i] = g / 1e6
	}

	out := make([][]float64, len(grid))
	for i, g := range grid {
		out[i] = make([]float64, t.Width())
		out[i][0] = g
	}

	from, to := linearColumns(t)
	ys := make([]float64, len(idx))
	for c := from; c < to; c++ {
		for k, r := range idx {
			ys[k] = rows[r][c]
		}
		interpolateColumn(xs, ys, at, out, c)
	}

	if t.IsOrientation() {
		rots := make([]orientation.Rotation, len(idx))
		for k, r := range idx {
			rots[k] = rotationAt(t, rows[r])
		}
		for i, x := range at {
			putRotation(t, out[i], slerpAt(xs, rots, x))
		}
	}

	resampled, err := NewTable(t.Width(), out, nil)
	if err != nil {
		panic(err)
	}
	return resampled
}

// holdEdges duplicates the first and last rows at the grid ends when the
// grid overhangs the stream, so values are held constant outside the
// observed range.
func holdEdges(rows [][]float64, grid []float64) [][]float64 {
	if len(grid) == 0 {
		return rows
	}
	first, last := grid[0], grid[len(grid)-1]
	if first < rows[0][0] {
		row := append([]float64(nil), rows[0]...)
		row[0] = first
		rows = append([][]float64{row}, rows...)
	}
	if last > rows[len(rows)-1][0] {
		row := append([]float64(nil), rows[len(rows)-1]...)
		row[0] = last
		rows = append(rows[:len(rows):len(rows)], row)
	}
	return rows
}

// knots returns strictly increasing times in seconds and the index of the
// row used for each. Repeated timestamps resolve to the last row.
func knots(rows [][]float64) (xs []float64, idx []int) {
	xs = make([]float64, 0, len(rows))
	idx = make([]int, 0, len(rows))
	for i, r := range rows {
		x := r[0] / 1e6
		if n := len(xs); n > 0 && !(x > xs[n-1]) {
			idx[n-1] = i
			continue
		}
		xs = append(xs, x)
		idx = append(idx, i)
	}
	return xs, idx
}

func interpolateColumn(xs, ys, at []float64, out [][]float64, c int) {
	if len(xs) < 2 {
		for i := range out {
			out[i][c] = ys[0]
		}
		return
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		panic(err)
	}
	for i, x := range at {
		out[i][c] = pl.Predict(x)
	}
}

func slerpAt(xs []float64, rots []orientation.Rotation, x float64) orientation.Rotation {
	j := sort.Search(len(xs), func(k int) bool { return xs[k] > x })
	switch {
	case j == 0:
		return rots[0]
	case j == len(xs):
		return rots[len(rots)-1]
	}
	i := j - 1
	frac := (x - xs[i]) / (xs[j] - xs[i])
	return orientation.Slerp(rots[i], rots[j], frac)
}
