package pulsarproducer

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrMissingTopic            = errors.New("topic is required")
	ErrMissingConnectionString = errors.New("pulsar_server is required")
)

// Publisher sends one message to a topic address and returns its message ID.
type Publisher interface {
	Publish(ctx context.Context, topicAddress, message string, opts PublishOptions) (string, error)
}

// PublishError wraps a failure reported by the Pulsar client.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string {
	return "failed to publish message: " + e.Err.Error()
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Publish resolves the credential, builds the publish options and sends
// message to topic exactly once. Failures are not retried.
func Publish(ctx context.Context, publisher Publisher, cred RawCredential, topic, message string, rawMessageOptions, rawProducerOptions map[string]interface{}) (string, error) {
	connectionString := cred.ConnectionString()
	if topic == "" {
		return "", ErrMissingTopic
	}
	if connectionString == "" {
		return "", ErrMissingConnectionString
	}

	address := TopicAddress(connectionString, topic)
	auth := ResolveAuthentication(cred)

	msgOpts, err := BuildMessageOptions(rawMessageOptions)
	if err != nil {
		return "", err
	}
	producerOpts, err := BuildProducerOptions(rawProducerOptions)
	if err != nil {
		return "", err
	}

	opts := MergeOptions(msgOpts, producerOpts)
	if auth.Type() != AuthTypeNone {
		opts.Authorization = auth
	}

	messageID, err := publisher.Publish(ctx, address, message, opts)
	if err != nil {
		return "", &PublishError{Err: err}
	}
	return messageID, nil
}

// TopicAddress joins a service URL and a topic with exactly one separator.
func TopicAddress(connectionString, topic string) string {
	return strings.TrimRight(connectionString, "/") + "/" + strings.TrimLeft(topic, ":/")
}
