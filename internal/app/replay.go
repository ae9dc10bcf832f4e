package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/inertial_sessions/internal/config"
	"github.com/relabs-tech/inertial_sessions/internal/imu"
	"github.com/relabs-tech/inertial_sessions/internal/orientation"
	"github.com/relabs-tech/inertial_sessions/internal/session"
)

var topicReplacer = strings.NewReplacer("/", "_", "+", "_", "#", "_", " ", "_")

// publisher is the part of an MQTT client the replay loop needs.
type publisher interface {
	Publish(topic string, payload []byte) error
}

type mqttPublisher struct {
	client mqtt.Client
}

func (p mqttPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, 0, false, payload)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// replayDevice holds the per-device sources and topics.
type replayDevice struct {
	poses         orientation.Source
	samples       imu.SampleSource
	poseTopic     string
	inertialTopic string
	poseDone      bool
	sampleDone    bool
}

// RunReplay loads and aligns the session, then publishes it over MQTT at
// the resampled rate scaled by REPLAY_SPEED until ctx is cancelled or the
// session ends.
func RunReplay(ctx context.Context) error {
	cfg := config.Get()
	if err := cfg.ValidateMQTT(); err != nil {
		return err
	}
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("replay: SAMPLE_RATE must be set so every device shares one time grid")
	}

	devices, err := LoadSession(cfg)
	if err != nil {
		return err
	}
	if !cfg.ConvertEuler {
		devices = session.ConvertToEulerAngles(devices)
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDReplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect error: %w", token.Error())
	}
	defer client.Disconnect(250)

	log.Printf("replay: connected to MQTT broker at %s", cfg.MQTTBroker)

	return replay(ctx, mqttPublisher{client}, devices, cfg, replayPeriod(cfg.SampleRate, cfg.ReplaySpeed))
}

// replayPeriod is the tick interval for sampleRate Hz played at speed.
// It never drops below 1ns, which time.NewTicker requires.
func replayPeriod(sampleRate, speed float64) time.Duration {
	period := time.Duration(float64(time.Second) / (sampleRate * speed))
	if period < time.Nanosecond {
		return time.Nanosecond
	}
	return period
}

// replay publishes one pose and one inertial sample per device per tick.
func replay(ctx context.Context, pub publisher, devices []session.Device, cfg *config.Config, period time.Duration) error {
	streams := make([]*replayDevice, len(devices))
	for i, d := range devices {
		key := deviceKey(d, i)
		streams[i] = &replayDevice{
			poses:         orientation.NewStreamSource(session.Poses(d), cfg.ReplayLoop),
			samples:       imu.NewReplaySource(key, d.Inertial(), cfg.ReplayLoop),
			poseTopic:     cfg.TopicPosePrefix + "/" + key,
			inertialTopic: cfg.TopicInertialPrefix + "/" + key,
		}
		if cfg.TopicInertialPrefix == "" {
			streams[i].sampleDone = true
		}
	}

	log.Printf("replay: publishing %d devices every %v", len(devices), period)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	published := 0
	for {
		select {
		case <-ctx.Done():
			log.Printf("replay: stopped after %d ticks", published)
			return nil
		case <-ticker.C:
		}

		active := false
		for _, s := range streams {
			if s.publishNext(pub) {
				active = true
			}
		}
		if !active {
			log.Printf("replay: session finished after %d ticks", published)
			return nil
		}
		published++
	}
}

// publishNext sends the next pose and sample. It reports whether either
// source still had data.
func (s *replayDevice) publishNext(pub publisher) bool {
	if !s.poseDone {
		pose, err := s.poses.Next()
		switch {
		case errors.Is(err, io.EOF):
			s.poseDone = true
		case err != nil:
			log.Printf("replay: pose source error: %v", err)
		default:
			publishJSON(pub, s.poseTopic, pose)
		}
	}

	if !s.sampleDone {
		sample, err := s.samples.NextSample()
		switch {
		case errors.Is(err, io.EOF):
			s.sampleDone = true
		case err != nil:
			log.Printf("replay: inertial source error: %v", err)
		default:
			publishJSON(pub, s.inertialTopic, sample)
		}
	}

	return !s.poseDone || !s.sampleDone
}

func publishJSON(pub publisher, topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("replay: json marshal error (%s): %v", topic, err)
		return
	}
	if err := pub.Publish(topic, payload); err != nil {
		log.Printf("replay: MQTT publish error (%s): %v", topic, err)
	}
}
