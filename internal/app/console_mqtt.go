package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/inertial_sessions/internal/config"
	"github.com/relabs-tech/inertial_sessions/internal/imu"
	"github.com/relabs-tech/inertial_sessions/internal/orientation"
)

// RunConsoleMQTT prints the poses and inertial samples published by the
// replay producer until ctx is cancelled.
func RunConsoleMQTT(ctx context.Context, out io.Writer) error {
	cfg := config.Get()
	if err := cfg.ValidateMQTT(); err != nil {
		return err
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to orientation
	poseTopic := cfg.TopicPosePrefix + "/+"
	poseToken := client.Subscribe(poseTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		printPose(out, msg.Topic(), msg.Payload())
	})
	poseToken.Wait()
	if poseToken.Error() != nil {
		return poseToken.Error()
	}
	log.Printf("console: subscribed to %s", poseTopic)

	// Subscribe to inertial samples
	if cfg.TopicInertialPrefix != "" {
		imuTopic := cfg.TopicInertialPrefix + "/+"
		imuToken := client.Subscribe(imuTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			printSample(out, msg.Payload())
		})
		imuToken.Wait()
		if imuToken.Error() != nil {
			return imuToken.Error()
		}
		log.Printf("console: subscribed to %s", imuTopic)
	}

	<-ctx.Done()

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func printPose(out io.Writer, topic string, payload []byte) {
	var p orientation.Pose
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Printf("console: pose unmarshal error: %v", err)
		return
	}

	device := topic[strings.LastIndex(topic, "/")+1:]
	fmt.Fprintf(out,
		"[POSE %s]  ROLL=%7.2f  PITCH=%7.2f  YAW=%7.2f\n",
		device, p.Roll, p.Pitch, p.Yaw,
	)
}

func printSample(out io.Writer, payload []byte) {
	var s imu.Sample
	if err := json.Unmarshal(payload, &s); err != nil {
		log.Printf("console: imu unmarshal error: %v", err)
		return
	}

	fmt.Fprintf(out,
		"[IMU %s] t=%.0f  gx=%8.3f gy=%8.3f gz=%8.3f  ax=%7.3f ay=%7.3f az=%7.3f\n",
		s.Device, s.Timestamp, s.Gx, s.Gy, s.Gz, s.Ax, s.Ay, s.Az,
	)
}
