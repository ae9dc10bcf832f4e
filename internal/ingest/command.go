package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/relabs-tech/inertial_sessions/internal/session"
)

// TimeLayout is the format of the "time" response in Command.json.
const TimeLayout = "2006-01-02 15:04:05"

var nan = math.NaN()

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nan
	}
	return v
}

// readCommand parses Command.json. A missing file yields no records.
func readCommand(dir string) ([]session.Command, error) {
	path := filepath.Join(dir, "Command.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var command []session.Command
	if err := json.Unmarshal(data, &command); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return command, nil
}

// parseIdentity extracts the first "ping" and "time" responses.
func parseIdentity(command []session.Command) session.Identity {
	var id session.Identity
	pinged, timed := false, false
	for _, response := range command {
		if v, ok := response["ping"]; ok && !pinged {
			if ping, ok := v.(map[string]any); ok {
				id.Interface = stringField(ping, "interface")
				id.DeviceName = stringField(ping, "name", "device_name")
				id.SerialNumber = stringField(ping, "sn", "serial_number")
				pinged = true
			} else {
				log.Printf("ingest: unable to parse ping response %v", v)
			}
		}
		if v, ok := response["time"]; ok && !timed {
			s, _ := v.(string)
			t, err := time.Parse(TimeLayout, s)
			if err != nil {
				log.Printf("ingest: unable to parse time %v", v)
				continue
			}
			id.Time = t
			timed = true
		}
	}
	return id
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s
		}
	}
	return ""
}
