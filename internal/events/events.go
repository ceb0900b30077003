// Package events publishes booking lifecycle notifications over MQTT.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-booking/internal/models"
)

const publishTimeout = 3 * time.Second

// StatusChanged is emitted when a booking moves to a new status.
type StatusChanged struct {
	BookingID string               `json:"bookingId"`
	DriverID  string               `json:"driverId,omitempty"`
	Status    models.BookingStatus `json:"status"`
	ChangedBy string               `json:"changedBy"`
	Timestamp time.Time            `json:"timestamp"`
}

// Publisher sends booking events. Implementations must not block indefinitely.
type Publisher interface {
	PublishStatus(ctx context.Context, event StatusChanged) error
	Close()
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishStatus(context.Context, StatusChanged) error { return nil }
func (Nop) Close()                                             {}

// MQTTPublisher publishes events to an MQTT broker.
type MQTTPublisher struct {
	client mqtt.Client
	prefix string
}

// NewMQTTPublisher connects to broker and returns a publisher writing under
// <prefix>/bookings/<id>/status.
func NewMQTTPublisher(broker, clientID, prefix string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		}).
		SetOnConnectHandler(func(mqtt.Client) {
			log.WithField("broker", broker).Info("MQTT connected")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	return &MQTTPublisher{client: client, prefix: prefix}, nil
}

// Topic returns the topic a status event for bookingID is published on.
func (p *MQTTPublisher) Topic(bookingID string) string {
	return StatusTopic(p.prefix, bookingID)
}

// StatusTopic builds the status topic of a booking.
func StatusTopic(prefix, bookingID string) string {
	return fmt.Sprintf("%s/bookings/%s/status", prefix, bookingID)
}

// PublishStatus publishes event with QoS 1 and waits for the broker until ctx is
// done or the publish timeout passes.
func (p *MQTTPublisher) PublishStatus(ctx context.Context, event StatusChanged) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode status event: %w", err)
	}
	token := p.client.Publish(p.Topic(event.BookingID), 1, false, payload)

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return fmt.Errorf("publish status event: %w", ctx.Err())
	}
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
