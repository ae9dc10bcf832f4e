package app

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/inertial_sessions/internal/config"
	"github.com/relabs-tech/inertial_sessions/internal/imu"
	"github.com/relabs-tech/inertial_sessions/internal/orientation"
	"github.com/relabs-tech/inertial_sessions/internal/session"
)

type message struct {
	topic   string
	payload []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []message
}

func (p *fakePublisher) Publish(topic string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message{topic, payload})
	return nil
}

func (p *fakePublisher) byTopic() map[string][][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string][][]byte)
	for _, m := range p.messages {
		out[m.topic] = append(out[m.topic], m.payload)
	}
	return out
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

func replayConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.SessionRoot = writeSession(t)
	cfg.SampleRate = 1000
	cfg.ConvertEuler = true
	cfg.TopicPosePrefix = "inertial/pose"
	cfg.TopicInertialPrefix = "inertial/imu"
	return cfg
}

func TestReplayPublishesSession(t *testing.T) {
	cfg := replayConfig(t)
	devices, err := LoadSession(cfg)
	require.NoError(t, err)

	pub := &fakePublisher{}
	require.NoError(t, replay(context.Background(), pub, devices, cfg, time.Millisecond))

	topics := pub.byTopic()
	require.Len(t, topics, 3)
	require.Len(t, topics["inertial/pose/left"], 3)
	require.Len(t, topics["inertial/imu/left"], 3)
	require.Len(t, topics["inertial/imu/right"], 3)

	var pose orientation.Pose
	require.NoError(t, json.Unmarshal(topics["inertial/pose/left"][1], &pose))
	require.InDelta(t, 45, pose.Yaw, 1e-6)

	var sample imu.Sample
	require.NoError(t, json.Unmarshal(topics["inertial/imu/left"][2], &sample))
	require.Equal(t, "left", sample.Device)
	require.Equal(t, 3000.0, sample.Timestamp)
	require.InDelta(t, 3, sample.Gx, 1e-9)
}

func TestReplayLoopStopsOnCancel(t *testing.T) {
	cfg := replayConfig(t)
	cfg.ReplayLoop = true
	cfg.TopicInertialPrefix = ""
	devices, err := LoadSession(cfg)
	require.NoError(t, err)

	pub := &fakePublisher{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- replay(ctx, pub, devices, cfg, time.Millisecond) }()

	require.Eventually(t, func() bool { return pub.count() > 6 }, 5*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("replay did not stop after cancel")
	}

	for topic := range pub.byTopic() {
		require.Equal(t, "inertial/pose/left", topic)
	}
}

func TestDeviceKey(t *testing.T) {
	d, err := session.NewDevice(session.Identity{SerialNumber: "ab/c+d"}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "ab_c_d", deviceKey(d, 0))

	anon, err := session.NewDevice(session.Identity{}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "device3", deviceKey(anon, 3))
}

func TestReplayPeriod(t *testing.T) {
	require.Equal(t, 5*time.Millisecond, replayPeriod(100, 2))
	require.Equal(t, time.Second, replayPeriod(1, 1))
	require.Equal(t, time.Nanosecond, replayPeriod(2e9, 1))
	require.Equal(t, time.Nanosecond, replayPeriod(1e6, 1e6))

	// A clamped period is accepted by the ticker.
	ticker := time.NewTicker(replayPeriod(1e12, 10))
	ticker.Stop()
}
