package pulsarproducer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/apache/pulsar-client-go/pulsar/auth"
	"github.com/hashicorp/go-hclog"
)

const (
	defaultConnectionTimeout = 5 * time.Second
	defaultOperationTimeout  = 30 * time.Second
	defaultProbeTopic        = "persistent://public/default/connectivity-probe"
)

// Client is the Pulsar capability the backend needs.
type Client interface {
	Tester
	Publisher
}

// clientFactory builds a Client for one request.
type clientFactory func(settings *ClientSettings, logger hclog.Logger) Client

// PulsarClient talks to Pulsar through pulsar-client-go. Every call opens its
// own connection and closes it before returning.
type PulsarClient struct {
	Settings ClientSettings
	Logger   hclog.Logger
}

// NewPulsarClient creates a client using settings, falling back to defaults
// for unset values.
func NewPulsarClient(settings *ClientSettings, logger hclog.Logger) Client {
	s := defaultClientSettings()
	if settings != nil {
		if settings.ConnectionTimeout > 0 {
			s.ConnectionTimeout = settings.ConnectionTimeout
		}
		if settings.OperationTimeout > 0 {
			s.OperationTimeout = settings.OperationTimeout
		}
		if settings.ProbeTopic != "" {
			s.ProbeTopic = settings.ProbeTopic
		}
	}
	return &PulsarClient{Settings: s, Logger: logger}
}

func defaultClientSettings() ClientSettings {
	return ClientSettings{
		ConnectionTimeout: defaultConnectionTimeout,
		OperationTimeout:  defaultOperationTimeout,
		ProbeTopic:        defaultProbeTopic,
	}
}

// Test looks up the probe topic's partitions, which requires a successful
// connection and authentication.
func (c *PulsarClient) Test(ctx context.Context, connectionString string, authDesc AuthDescriptor) (bool, error) {
	client, err := c.newClient(connectionString, authDesc)
	if err != nil {
		return false, err
	}
	defer client.Close()

	done := make(chan error, 1)
	go func() {
		_, err := client.TopicPartitions(c.Settings.ProbeTopic)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-done:
		if err != nil {
			return false, fmt.Errorf("looking up %s: %w", c.Settings.ProbeTopic, err)
		}
		return true, nil
	}
}

// Publish sends message to the topic named in topicAddress.
func (c *PulsarClient) Publish(ctx context.Context, topicAddress, message string, opts PublishOptions) (string, error) {
	serviceURL, topic, err := splitTopicAddress(topicAddress)
	if err != nil {
		return "", err
	}

	msg := producerMessage(message, opts.MessageOptions)

	var authDesc AuthDescriptor = NoAuth{}
	if opts.Authorization != nil {
		authDesc = opts.Authorization
	}
	client, err := c.newClient(serviceURL, authDesc)
	if err != nil {
		return "", err
	}
	defer client.Close()

	producer, err := client.CreateProducer(producerOptions(topic, opts.ProducerOptions))
	if err != nil {
		return "", fmt.Errorf("creating producer for %s: %w", topic, err)
	}
	defer producer.Close()

	id, err := producer.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (c *PulsarClient) newClient(serviceURL string, authDesc AuthDescriptor) (pulsar.Client, error) {
	options, err := clientOptions(serviceURL, authDesc)
	if err != nil {
		return nil, err
	}
	options.ConnectionTimeout = c.Settings.ConnectionTimeout
	options.OperationTimeout = c.Settings.OperationTimeout
	if c.Logger != nil {
		options.Logger = newPulsarLogger(c.Logger)
	}

	client, err := pulsar.NewClient(options)
	if err != nil {
		return nil, fmt.Errorf("creating pulsar client for %s: %w", serviceURL, err)
	}
	return client, nil
}

// clientOptions maps an AuthDescriptor onto pulsar client options.
func clientOptions(serviceURL string, authDesc AuthDescriptor) (pulsar.ClientOptions, error) {
	options := pulsar.ClientOptions{URL: serviceURL}

	switch a := authDesc.(type) {
	case nil, NoAuth:
	case BasicAuth:
		provider, err := pulsar.NewAuthenticationBasic(a.Username, a.Password)
		if err != nil {
			return pulsar.ClientOptions{}, fmt.Errorf("basic authentication: %w", err)
		}
		options.Authentication = provider
	case OIDCAuth:
		// pulsar-client-go sends the token as is; there is no client-side
		// verification for AllowUnverified to relax.
		options.Authentication = pulsar.NewAuthenticationToken(a.Token)
	case MTLSAuth:
		options.Authentication = pulsar.NewAuthenticationTLS(a.CertPath, a.KeyPath)
		options.TLSTrustCertsFilePath = a.CACert
	case OAuth2Auth:
		provider, err := auth.NewAuthenticationOAuth2WithParams(map[string]string{
			auth.ConfigParamType:      auth.ConfigParamTypeClientCredentials,
			auth.ConfigParamIssuerURL: a.Issuer,
			auth.ConfigParamAudience:  a.Audience,
			auth.ConfigParamClientID:  a.ClientID,
			auth.ConfigParamKeyFile:   a.PrivateKey,
		})
		if err != nil {
			return pulsar.ClientOptions{}, fmt.Errorf("oauth2 authentication: %w", err)
		}
		options.Authentication = provider
	case AthenzAuth:
		options.Authentication = newAthenzProvider(a)
	default:
		return pulsar.ClientOptions{}, fmt.Errorf("unsupported authentication type %q", authDesc.Type())
	}

	return options, nil
}

func producerOptions(topic string, opts ProducerOptions) pulsar.ProducerOptions {
	po := pulsar.ProducerOptions{
		Topic:      topic,
		Name:       opts.Name,
		Properties: opts.ProducerProperties,
	}
	if opts.Timeout != nil {
		po.SendTimeout = time.Duration(*opts.Timeout) * time.Second
	}
	return po
}

func producerMessage(message string, opts MessageOptions) *pulsar.ProducerMessage {
	msg := &pulsar.ProducerMessage{
		Payload:             []byte(message),
		Key:                 opts.Key,
		OrderingKey:         opts.OrderingKey,
		Properties:          opts.Properties,
		ReplicationClusters: opts.ReplicationClusters,
	}
	if opts.DeliverAt != nil {
		msg.DeliverAt = *opts.DeliverAt
	}
	if opts.DeliverAfter != nil {
		msg.DeliverAfter = time.Duration(*opts.DeliverAfter) * time.Millisecond
	}
	if opts.EventTime != nil {
		msg.EventTime = *opts.EventTime
	}
	if opts.SequenceID != nil {
		seq := *opts.SequenceID
		msg.SequenceID = &seq
	}
	return msg
}

// splitTopicAddress splits "scheme://host:port/topic" into the service URL
// and the topic.
func splitTopicAddress(address string) (serviceURL, topic string, err error) {
	schemeEnd := strings.Index(address, "://")
	if schemeEnd < 0 {
		return "", "", fmt.Errorf("topic address %q has no scheme", address)
	}
	rest := address[schemeEnd+len("://"):]
	slash := strings.Index(rest, "/")
	if slash < 0 || slash == len(rest)-1 {
		return "", "", fmt.Errorf("topic address %q has no topic", address)
	}
	return address[:schemeEnd+len("://")+slash], rest[slash+1:], nil
}
