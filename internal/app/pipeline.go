package app

import (
	"fmt"
	"log"
	"math"

	"github.com/relabs-tech/inertial_sessions/internal/config"
	"github.com/relabs-tech/inertial_sessions/internal/ingest"
	"github.com/relabs-tech/inertial_sessions/internal/session"
)

// LoadSession reads cfg.SessionRoot and runs the configured pipeline.
func LoadSession(cfg *config.Config) ([]session.Device, error) {
	devices, err := ingest.Read(cfg.SessionRoot, cfg.MessageTypes...)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return Align(devices, cfg)
}

// Align runs the pipeline steps enabled in cfg in a fixed order: zero
// timestamps, crop, resample, zero heading, convert to Euler angles.
func Align(devices []session.Device, cfg *config.Config) ([]session.Device, error) {
	if cfg.ZeroTimestamp {
		devices = session.ZeroFirstTimestamp(devices, cfg.ZeroTimestampOffset)
		log.Printf("pipeline: zeroed first timestamp (offset %d us)", cfg.ZeroTimestampOffset)
	}

	if cfg.CropStart != nil || cfg.CropStop != nil {
		start, stop := int64(math.MinInt64), int64(session.NoStop)
		if cfg.CropStart != nil {
			start = *cfg.CropStart
		}
		if cfg.CropStop != nil {
			stop = *cfg.CropStop
		}
		var err error
		devices, err = session.Crop(devices, start, stop)
		if err != nil {
			return nil, fmt.Errorf("crop: %w", err)
		}
		log.Printf("pipeline: cropped to [%d, %d]", start, stop)
	}

	if cfg.SampleRate > 0 {
		var err error
		devices, err = session.Resample(devices, cfg.SampleRate)
		if err != nil {
			return nil, fmt.Errorf("resample: %w", err)
		}
		log.Printf("pipeline: resampled at %.1f Hz", cfg.SampleRate)
	}

	if cfg.ZeroHeading {
		devices = session.ZeroHeading(devices, cfg.HeadingTimestamp, cfg.HeadingOffset)
		log.Printf("pipeline: zeroed heading at %d us to %.1f deg", cfg.HeadingTimestamp, cfg.HeadingOffset)
	}

	if cfg.ConvertEuler {
		devices = session.ConvertToEulerAngles(devices)
		log.Println("pipeline: converted orientation to Euler angles")
	}

	return devices, nil
}

// deviceKey names a device in topics and listings.
func deviceKey(d session.Device, index int) string {
	key := d.DeviceName()
	if key == "" {
		key = d.SerialNumber()
	}
	if key == "" {
		return fmt.Sprintf("device%d", index)
	}
	return topicReplacer.Replace(key)
}
