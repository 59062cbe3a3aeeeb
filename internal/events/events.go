// Package events publishes catalog lifecycle notifications over MQTT so
// player apps can refresh their bundles without polling.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Publisher wraps one MQTT connection. A nil Publisher is valid and drops
// every event, so the export pipeline works without a broker configured.
type Publisher struct {
	client mqtt.Client
}

// ExportEvent tells subscribed player apps that fresh bundles exist.
type ExportEvent struct {
	ProfileID string    `json:"profile_id"`
	AppID     string    `json:"app_id,omitempty"`
	Files     []string  `json:"files"`
	Uploaded  []string  `json:"uploaded,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Connect dials the broker. An empty brokerURL yields a nil Publisher.
func Connect(brokerURL, clientID string) (*Publisher, error) {
	if brokerURL == "" {
		return nil, nil
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &Publisher{client: client}, nil
}

// PublishExport sends an ExportEvent on apps/{appID}/exports. Publish
// failures are logged, not returned: delivery of the bundle already
// succeeded by the time this runs.
func (p *Publisher) PublishExport(ev ExportEvent) {
	if p == nil || p.client == nil {
		return
	}
	topic := fmt.Sprintf("apps/%s/exports", ev.AppID)
	if ev.AppID == "" {
		topic = "exports"
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal export event")
		return
	}
	token := p.client.Publish(topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		log.Warn().Err(token.Error()).Str("topic", topic).Msg("failed to publish export event")
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.client.Disconnect(250)
}
