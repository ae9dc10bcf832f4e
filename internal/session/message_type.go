// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package session

import (
	"fmt"
	"strings"
)

// MessageType identifies one of the per-device data streams.
type MessageType int

const (
	TypeInertial MessageType = iota
	TypeMagnetometer
	TypeQuaternion
	TypeRotationMatrix
	TypeEulerAngles
	TypeLinearAcceleration
	TypeEarthAcceleration
	TypeAhrsStatus
	TypeHighGAccelerometer
	TypeTemperature
	TypeBattery
	TypeRssi
	TypeSerialAccessory
	TypeNotification
	TypeError

	numMessageTypes
)

var messageTypeNames = [numMessageTypes]string{
	"Inertial",
	"Magnetometer",
	"Quaternion",
	"RotationMatrix",
	"EulerAngles",
	"LinearAcceleration",
	"EarthAcceleration",
	"AhrsStatus",
	"HighGAccelerometer",
	"Temperature",
	"Battery",
	"Rssi",
	"SerialAccessory",
	"Notification",
	"Error",
}

// Numeric width of each type, timestamp included.
var messageTypeWidths = [numMessageTypes]int{
	TypeInertial:           7,
	TypeMagnetometer:       4,
	TypeQuaternion:         5,
	TypeRotationMatrix:     10,
	TypeEulerAngles:        4,
	TypeLinearAcceleration: 8,
	TypeEarthAcceleration:  8,
	TypeAhrsStatus:         5,
	TypeHighGAccelerometer: 4,
	TypeTemperature:        2,
	TypeBattery:            4,
	TypeRssi:               3,
	TypeSerialAccessory:    9,
	TypeNotification:       1,
	TypeError:              1,
}

// AllMessageTypes returns every message type in declaration order.
func AllMessageTypes() []MessageType {
	out := make([]MessageType, numMessageTypes)
	for i := range out {
		out[i] = MessageType(i)
	}
	return out
}

func (t MessageType) valid() bool { return t >= 0 && t < numMessageTypes }

func (t MessageType) String() string {
	if !t.valid() {
		return fmt.Sprintf("MessageType(%d)", int(t))
	}
	return messageTypeNames[t]
}

// FileName is the CSV file the type is logged to inside a device directory.
func (t MessageType) FileName() string { return t.String() + ".csv" }

// Width is the number of numeric columns, timestamp included.
func (t MessageType) Width() int {
	if !t.valid() {
		return 0
	}
	return messageTypeWidths[t]
}

// HasText reports whether the type carries a text column.
func (t MessageType) HasText() bool {
	return t == TypeNotification || t == TypeError
}

// IsOrientation reports whether the stream carries an orientation payload.
func (t MessageType) IsOrientation() bool {
	switch t {
	case TypeQuaternion, TypeRotationMatrix, TypeEulerAngles, TypeLinearAcceleration, TypeEarthAcceleration:
		return true
	}
	return false
}

// IsResampled reports whether Resample moves the stream onto the grid.
// Status flags and text events keep their own timestamps.
func (t MessageType) IsResampled() bool {
	switch t {
	case TypeAhrsStatus, TypeNotification, TypeError:
		return false
	}
	return t.valid()
}

// ParseMessageType accepts the type name in any case, with or without the
// .csv suffix, and snake_case spellings such as "euler_angles".
func ParseMessageType(s string) (MessageType, error) {
	key := normalizeTypeName(s)
	for i, name := range messageTypeNames {
		if normalizeTypeName(name) == key {
			return MessageType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown message type %q", s)
}

func normalizeTypeName(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, ".csv")
	s = strings.ReplaceAll(s, "_", "")
	return strings.ReplaceAll(s, "-", "")
}
