package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	coremetrics "github.com/kilianp07/occusim/core/metrics"
	"github.com/kilianp07/occusim/infra/logger"
)

// Config defines the connection parameters for the occupancy publisher.
type Config struct {
	Enabled   bool   `json:"enabled"`
	Broker    string `json:"broker"`
	ClientID  string `json:"client_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	TopicBase string `json:"topic_base"`
	QoS       byte   `json:"qos"`
}

// SetDefaults applies the default topic base and client identifier.
func (c *Config) SetDefaults() {
	if c.TopicBase == "" {
		c.TopicBase = "occusim"
	}
	if c.ClientID == "" {
		c.ClientID = "occusim-" + uuid.NewString()[:8]
	}
}

// pahoClient narrows the paho interface for testability.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher streams occupancy ticks, meeting outcomes and run summaries to
// an MQTT broker, for consumers that ingest live feeds instead of files. It
// implements the metrics Sink interface.
type Publisher struct {
	cli  pahoClient
	base string
	qos  byte
	log  logger.Logger
}

// NewPublisher connects to the broker and returns a publisher sink.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt: broker is required")
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(5 * time.Second)
	log := logger.New("mqtt-publisher")
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt: connect: %w", token.Error())
	}
	return &Publisher{cli: cli, base: cfg.TopicBase, qos: cfg.QoS, log: log}, nil
}

func (p *Publisher) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	token := p.cli.Publish(p.base+"/"+topic, p.qos, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt: publish %s: %w", topic, token.Error())
	}
	return nil
}

// RecordOccupancy publishes one message per room observation.
func (p *Publisher) RecordOccupancy(points []coremetrics.RoomTick) error {
	for _, pt := range points {
		if err := p.publish("occupancy", pt); err != nil {
			return err
		}
	}
	return nil
}

// RecordMeeting publishes a meeting outcome.
func (p *Publisher) RecordMeeting(ev coremetrics.MeetingEvent) error {
	return p.publish("meetings", ev)
}

// RecordRunSummary publishes the day summary.
func (p *Publisher) RecordRunSummary(sum coremetrics.RunSummary) error {
	return p.publish("summary", sum)
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
