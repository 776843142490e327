package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Publisher is the subset of an MQTT client used to publish.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload any) mqtt.Token
}

// MQTTNotifier publishes a JSON message per event to <prefix>/<prayer>.
type MQTTNotifier struct {
	client Publisher
	prefix string
}

// Message is the MQTT payload.
type Message struct {
	Prayer string    `json:"prayer"`
	Time   string    `json:"time"`
	Event  time.Time `json:"event"`
	Diff   int       `json:"diff"`
}

// MQTTOptions configures the broker connection.
type MQTTOptions struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// ConnectMQTT connects to the broker and returns a notifier together with
// a function that disconnects it.
func ConnectMQTT(opts MQTTOptions) (*MQTTNotifier, func(), error) {
	clientID := opts.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("praytimes-%d", time.Now().UnixNano())
	}

	o := mqtt.NewClientOptions()
	o.AddBroker(opts.Broker)
	o.SetClientID(clientID)
	o.SetUsername(opts.Username)
	o.SetPassword(opts.Password)
	o.SetAutoReconnect(true)
	o.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", opts.Broker).Msg("connected to MQTT broker")
	}
	o.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", opts.Broker).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(o)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return NewMQTTNotifier(client, opts.TopicPrefix), func() { client.Disconnect(250) }, nil
}

// NewMQTTNotifier wraps a connected client.
func NewMQTTNotifier(client Publisher, prefix string) *MQTTNotifier {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		prefix = "praytimes"
	}
	return &MQTTNotifier{client: client, prefix: prefix}
}

// Name implements Notifier.
func (m *MQTTNotifier) Name() string {
	return "mqtt"
}

// Topic returns the topic for a notification.
func (m *MQTTNotifier) Topic(n Notification) string {
	return m.prefix + "/" + n.Prayer.String()
}

// Notify implements Notifier.
func (m *MQTTNotifier) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(Message{
		Prayer: n.Prayer.String(),
		Time:   n.Formatted,
		Event:  n.Event.UTC(),
		Diff:   n.Diff,
	})
	if err != nil {
		return err
	}

	token := m.client.Publish(m.Topic(n), 1, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
