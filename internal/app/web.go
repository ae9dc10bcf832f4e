// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/inertial_sessions/internal/config"
	"github.com/relabs-tech/inertial_sessions/internal/session"
)

// defaultReplayPeriod paces the websocket replay when the session was not
// resampled.
const defaultReplayPeriod = 10 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// DeviceSummary is the /api/devices entry for one device. Time and the
// bounds are omitted when the device has none.
type DeviceSummary struct {
	Index          int            `json:"index"`
	Key            string         `json:"key"`
	Interface      string         `json:"interface,omitempty"`
	DeviceName     string         `json:"device_name,omitempty"`
	SerialNumber   string         `json:"serial_number,omitempty"`
	Time           *time.Time     `json:"time,omitempty"`
	FirstTimestamp *float64       `json:"first_timestamp,omitempty"`
	LastTimestamp  *float64       `json:"last_timestamp,omitempty"`
	Streams        map[string]int `json:"streams"`
}

type webServer struct {
	devices []session.Device
	period  time.Duration
	loop    bool
}

// RunWeb loads the session and serves it over HTTP and WebSocket.
func RunWeb() error {
	cfg := config.Get()
	if err := cfg.ValidateWeb(); err != nil {
		return err
	}

	devices, err := LoadSession(cfg)
	if err != nil {
		return err
	}
	if !cfg.ConvertEuler {
		devices = session.ConvertToEulerAngles(devices)
	}

	period := defaultReplayPeriod
	if cfg.SampleRate > 0 {
		period = replayPeriod(cfg.SampleRate, cfg.ReplaySpeed)
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: serving %d devices on %s", len(devices), addr)
	return http.ListenAndServe(addr, newWebHandler(devices, period, cfg.ReplayLoop))
}

func newWebHandler(devices []session.Device, period time.Duration, loop bool) http.Handler {
	s := &webServer{devices: devices, period: period, loop: loop}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/devices", s.handleDevices)
	mux.HandleFunc("GET /api/devices/{index}/euler", s.handleEuler)
	mux.HandleFunc("GET /ws/replay", s.handleReplayWS)
	return mux
}

func (s *webServer) handleDevices(w http.ResponseWriter, r *http.Request) {
	out := make([]DeviceSummary, len(s.devices))
	for i, d := range s.devices {
		sum := DeviceSummary{
			Index:        i,
			Key:          deviceKey(d, i),
			Interface:    d.Interface(),
			DeviceName:   d.DeviceName(),
			SerialNumber: d.SerialNumber(),
			Streams:      make(map[string]int),
		}
		if ts := d.Time(); !ts.IsZero() {
			sum.Time = &ts
		}
		if first, ok := d.FirstTimestamp(); ok {
			last, _ := d.LastTimestamp()
			sum.FirstTimestamp, sum.LastTimestamp = &first, &last
		}
		for _, t := range session.AllMessageTypes() {
			if n := d.Stream(t).Len(); n > 0 {
				sum.Streams[t.String()] = n
			}
		}
		out[i] = sum
	}
	writeJSON(w, out)
}

func (s *webServer) handleEuler(w http.ResponseWriter, r *http.Request) {
	d, ok := s.device(w, r.PathValue("index"))
	if !ok {
		return
	}
	writeJSON(w, session.Poses(d))
}

// handleReplayWS streams the Euler angles of ?device=<index> at the replay
// rate until the session ends or the client goes away.
func (s *webServer) handleReplayWS(w http.ResponseWriter, r *http.Request) {
	d, ok := s.device(w, r.URL.Query().Get("device"))
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// Drain client messages so close frames are noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	poses := session.Poses(d)
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for i := 0; ; i++ {
		if i == len(poses) {
			if !s.loop || len(poses) == 0 {
				break
			}
			i = 0
		}
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
		if err := conn.WriteJSON(poses[i]); err != nil {
			log.Printf("web: websocket write error: %v", err)
			return
		}
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "end of session")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		log.Printf("web: websocket close error: %v", err)
	}
}

func (s *webServer) device(w http.ResponseWriter, raw string) (session.Device, bool) {
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 || i >= len(s.devices) {
		http.Error(w, fmt.Sprintf("unknown device %q", raw), http.StatusNotFound)
		return session.Device{}, false
	}
	return s.devices[i], true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}
