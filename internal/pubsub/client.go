package pubsub

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const publishTimeout = 10 * time.Second

// New connects to Google Cloud Pub/Sub for projectID. The returned teardown
// closes the client.
func New(projectID string) (PubSubClient, func(), error) {
	ctx := context.Background()
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	c := &client{
		client: pubSubC,
		teardown: func() {
			if err := pubSubC.Close(); err != nil {
				log.Error("Failed to close pubsub client", "error", err)
			}
		},
	}
	return c, c.teardown, nil
}

func (c *client) SendMessage(topic EventType, data any) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err, "topic", topic)
		return err
	}
	result := c.client.Topic(string(topic)).Publish(ctx, &pubsub.Message{Data: msgpackData})
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	log.Info("Published message", "topic", topic, "serverID", serverID)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

// logClient encodes messages like the real client but only logs them. It
// is used when no Cloud project is configured.
type logClient struct{}

// NewLogOnly returns a client that never leaves the process.
func NewLogOnly() PubSubClient {
	return logClient{}
}

func (logClient) SendMessage(topic EventType, data any) error {
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err, "topic", topic)
		return err
	}
	log.Info("Pubsub disabled, dropping message", "topic", topic, "bytes", len(msgpackData))
	return nil
}

func (logClient) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func decode(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}
