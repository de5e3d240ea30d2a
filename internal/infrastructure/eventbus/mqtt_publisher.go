// Package eventbus is a server-internal operational feed: the runner
// publishes run lifecycle notifications here for log aggregation and future
// dashboards. It is never the client-facing tick feed — clients still poll
// the façade (spec §5/§9); nothing published here reaches the edge.
package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/logging"
)

const (
	topicRunStarted = "ops/run/started"
	topicRunTick    = "ops/run/tick"
	topicRunDone    = "ops/run/done"
)

// Publisher publishes run.started/run.tick/run.done notifications to an MQTT
// broker; a failed run is reported on run.done with failed set. A nil *Publisher is valid and every publish call
// becomes a no-op, so the runner can hold one unconditionally.
type Publisher struct {
	client mqtt.Client
}

// New connects to brokerURL. brokerURL == "" disables the bus.
func New(brokerURL string) (*Publisher, error) {
	if brokerURL == "" {
		return nil, nil
	}
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(fmt.Sprintf("scenario-engine-%d", time.Now().UnixNano())).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return nil, fmt.Errorf("connecting to mqtt broker %s timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to mqtt broker %s: %w", brokerURL, err)
	}
	return &Publisher{client: client}, nil
}

func (p *Publisher) publish(topic string, payload interface{}) {
	if p == nil || p.client == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		logging.Warning("eventbus: marshal failed for topic %s: %v", topic, err)
		return
	}
	token := p.client.Publish(topic, 0, false, raw)
	go func() {
		if token.WaitTimeout(2*time.Second) && token.Error() != nil {
			logging.Warning("eventbus: publish to %s failed: %v", topic, token.Error())
		}
	}()
}

// PublishRunStarted announces a newly started run.
func (p *Publisher) PublishRunStarted(simRunID, instanceID string) {
	p.publish(topicRunStarted, map[string]string{
		"sim_run_id":           simRunID,
		"scenario_instance_id": instanceID,
		"at":                   time.Now().Format(time.RFC3339),
	})
}

// PublishRunTick announces one newly published tick.
func (p *Publisher) PublishRunTick(simRunID string, tickIndex int) {
	p.publish(topicRunTick, map[string]interface{}{
		"sim_run_id": simRunID,
		"tick_index": tickIndex,
	})
}

// PublishRunDone announces a run's completion, successful or failed.
func (p *Publisher) PublishRunDone(simRunID string, failed bool) {
	p.publish(topicRunDone, map[string]interface{}{
		"sim_run_id": simRunID,
		"failed":     failed,
		"at":         time.Now().Format(time.RFC3339),
	})
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.client.Disconnect(250)
}
