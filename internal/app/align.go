package app

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/relabs-tech/inertial_sessions/internal/config"
	"github.com/relabs-tech/inertial_sessions/internal/session"
)

// RunAlign loads the session and prints a summary of every device.
func RunAlign(out io.Writer) error {
	cfg := config.Get()

	devices, err := LoadSession(cfg)
	if err != nil {
		return err
	}
	return PrintSummary(out, devices)
}

// PrintSummary writes identity, bounds and per-stream row counts.
func PrintSummary(out io.Writer, devices []session.Device) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, d := range devices {
		fmt.Fprintf(w, "[%d] %s\tinterface=%s\tserial=%s\n", i, deviceKey(d, i), d.Interface(), d.SerialNumber())
		if !d.Time().IsZero() {
			fmt.Fprintf(w, "    time\t%s\n", d.Time().Format("2006-01-02 15:04:05"))
		}
		if first, ok := d.FirstTimestamp(); ok {
			last, _ := d.LastTimestamp()
			fmt.Fprintf(w, "    bounds\t%.0f .. %.0f us\n", first, last)
		} else {
			fmt.Fprintf(w, "    bounds\tnone\n")
		}

		var counts []string
		for _, t := range session.AllMessageTypes() {
			if n := d.Stream(t).Len(); n > 0 {
				counts = append(counts, fmt.Sprintf("%s=%d", t, n))
			}
		}
		if len(counts) == 0 {
			counts = append(counts, "no data")
		}
		fmt.Fprintf(w, "    streams\t%s\n", strings.Join(counts, " "))
	}
	return w.Flush()
}
