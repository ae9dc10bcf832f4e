package session

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// mapDevices applies fn to every device on a bounded worker pool. Results
// keep the input order.
func mapDevices(devices []Device, fn func(Device) Device) []Device {
	out := make([]Device, len(devices))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, d := range devices {
		g.Go(func() error {
			out[i] = fn(d)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// boundsOf collects the bounds of the devices that have any.
func boundsOf(devices []Device) (firsts, lasts []float64) {
	for _, d := range devices {
		if !d.HasBounds() {
			continue
		}
		firsts = append(firsts, d.first)
		lasts = append(lasts, d.last)
	}
	return firsts, lasts
}

func minOf(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return floats.Min(v)
}

func maxOf(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return floats.Max(v)
}
