// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package session

import (
	"errors"
	"fmt"
	"time"
)

// ErrWidthMismatch is returned when a table does not have the column count
// of its message type.
var ErrWidthMismatch = errors.New("table width does not match message type")

// Command is one free-form response record from Command.json.
type Command map[string]any

// Identity is the device identity reported by the "ping" command. Fields
// are empty when the session did not record them.
type Identity struct {
	Interface    string `json:"interface,omitempty"`
	DeviceName   string `json:"device_name,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	// Time is the session start time, zero when absent.
	Time time.Time `json:"time"`
}

// Device is an immutable snapshot of one device's session: identity, the
// raw command records and one table per message type. Every transform
// returns new Device values; use the With methods to derive a copy.
type Device struct {
	identity Identity
	command  []Command
	streams  [numMessageTypes]Table

	first, last float64
	hasBounds   bool
}

// NewDevice builds a device. Message types missing from streams get an
// empty table of the right width.
func NewDevice(id Identity, command []Command, streams map[MessageType]Table) (Device, error) {
	d := Device{identity: id, command: command}
	for _, t := range AllMessageTypes() {
		d.streams[t] = EmptyTable(t.Width())
	}
	for t, table := range streams {
		if !t.valid() {
			return Device{}, fmt.Errorf("stream %v: unknown message type", t)
		}
		if table.Empty() {
			continue
		}
		if table.Width() != t.Width() {
			return Device{}, fmt.Errorf("stream %v has %d columns, want %d: %w", t, table.Width(), t.Width(), ErrWidthMismatch)
		}
		d.streams[t] = table
	}
	d.updateBounds()
	return d, nil
}

// Identity returns the device identity.
func (d Device) Identity() Identity { return d.identity }

func (d Device) Interface() string    { return d.identity.Interface }
func (d Device) DeviceName() string   { return d.identity.DeviceName }
func (d Device) SerialNumber() string { return d.identity.SerialNumber }
func (d Device) Time() time.Time      { return d.identity.Time }

// Command returns the raw Command.json records.
func (d Device) Command() []Command { return d.command }

// FirstTimestamp is the earliest first timestamp over all non-empty streams.
func (d Device) FirstTimestamp() (float64, bool) { return d.first, d.hasBounds }

// LastTimestamp is the latest last timestamp over all non-empty streams.
func (d Device) LastTimestamp() (float64, bool) { return d.last, d.hasBounds }

// HasBounds reports whether any stream has data.
func (d Device) HasBounds() bool { return d.hasBounds }

// Stream returns the table for t.
func (d Device) Stream(t MessageType) Table { return d.streams[t] }

// Message returns the typed view for t.
func (d Device) Message(t MessageType) Message { return View(t, d.streams[t]) }

func (d Device) Inertial() Inertial         { return Inertial{d.streams[TypeInertial]} }
func (d Device) Magnetometer() Magnetometer { return Magnetometer{d.streams[TypeMagnetometer]} }
func (d Device) Quaternion() Quaternion     { return Quaternion{d.streams[TypeQuaternion]} }
func (d Device) RotationMatrix() RotationMatrix {
	return RotationMatrix{d.streams[TypeRotationMatrix]}
}
func (d Device) EulerAngles() EulerAngles { return EulerAngles{d.streams[TypeEulerAngles]} }
func (d Device) LinearAcceleration() LinearAcceleration {
	return LinearAcceleration{d.streams[TypeLinearAcceleration]}
}
func (d Device) EarthAcceleration() EarthAcceleration {
	return EarthAcceleration{d.streams[TypeEarthAcceleration]}
}
func (d Device) AhrsStatus() AhrsStatus { return AhrsStatus{d.streams[TypeAhrsStatus]} }
func (d Device) HighGAccelerometer() HighGAccelerometer {
	return HighGAccelerometer{d.streams[TypeHighGAccelerometer]}
}
func (d Device) Temperature() Temperature { return Temperature{d.streams[TypeTemperature]} }
func (d Device) Battery() Battery         { return Battery{d.streams[TypeBattery]} }
func (d Device) Rssi() Rssi               { return Rssi{d.streams[TypeRssi]} }
func (d Device) SerialAccessory() SerialAccessory {
	return SerialAccessory{d.streams[TypeSerialAccessory]}
}
func (d Device) Notification() Notification { return Notification{d.streams[TypeNotification]} }
func (d Device) Errors() Error              { return Error{d.streams[TypeError]} }

// WithStream returns a copy of d with the table for t replaced. It panics
// if the table width does not match t; transforms always build tables of
// the right shape.
func (d Device) WithStream(t MessageType, table Table) Device {
	return d.WithStreams(map[MessageType]Table{t: table})
}

// WithStreams returns a copy of d with several tables replaced.
func (d Device) WithStreams(streams map[MessageType]Table) Device {
	for t, table := range streams {
		if table.Empty() {
			table = EmptyTable(t.Width())
		} else if table.Width() != t.Width() {
			panic(fmt.Sprintf("session: %v table has %d columns, want %d", t, table.Width(), t.Width()))
		}
		d.streams[t] = table
	}
	d.updateBounds()
	return d
}

// WithIdentity returns a copy of d with a new identity.
func (d Device) WithIdentity(id Identity) Device {
	d.identity = id
	return d
}

func (d *Device) updateBounds() {
	d.first, d.last, d.hasBounds = 0, 0, false
	for _, s := range d.streams {
		first, ok := s.First()
		if !ok {
			continue
		}
		last, _ := s.Last()
		if !d.hasBounds {
			d.first, d.last, d.hasBounds = first, last, true
			continue
		}
		if first < d.first {
			d.first = first
		}
		if last > d.last {
			d.last = last
		}
	}
}

// Devices is an ordered list of devices from one session.
type Devices []Device

// ByName indexes the devices by device name. Devices without a name are
// keyed by serial number; later duplicates win.
func (ds Devices) ByName() map[string]Device {
	out := make(map[string]Device, len(ds))
	for _, d := range ds {
		key := d.DeviceName()
		if key == "" {
			key = d.SerialNumber()
		}
		out[key] = d
	}
	return out
}

// Bounds returns the earliest first timestamp and the latest last timestamp
// over all devices.
func (ds Devices) Bounds() (first, last float64, ok bool) {
	firsts, lasts := boundsOf(ds)
	if len(firsts) == 0 {
		return 0, 0, false
	}
	return minOf(firsts), maxOf(lasts), true
}
