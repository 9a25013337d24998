package pulsarproducer

import (
	"context"
	"errors"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
)

func pathPublish(b *pulsarBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "publish/" + framework.GenericNameRegex("name"),
			Fields: map[string]*framework.FieldSchema{
				"name": {
					Type:        framework.TypeString,
					Description: "Name of the producer to publish with.",
					Required:    true,
				},
				"message": {
					Type:        framework.TypeString,
					Description: "Message to publish.",
					Required:    true,
				},
				"message_options": {
					Type:        framework.TypeMap,
					Description: "Message options: deliverAt, deliverAfter (ms), eventTime, key, orderingKey, sequenceId, properties.property[{key, value}], replicationClusters.items[{clusterName}].",
				},
				"producer_options": {
					Type:        framework.TypeMap,
					Description: "Producer options overriding those stored on the producer.",
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathPublishWrite,
				},
			},
			HelpSynopsis:    "Publish a message to Apache Pulsar.",
			HelpDescription: "Publishes one message to the producer's topic using its credential and returns the message ID.",
		},
	}
}

func (b *pulsarBackend) pathPublishWrite(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)
	message := d.Get("message").(string)
	messageOptions := d.Get("message_options").(map[string]interface{})
	producerOptions := d.Get("producer_options").(map[string]interface{})

	if message == "" {
		return logical.ErrorResponse("message is required"), nil
	}

	producer, cred, resp, err := b.loadProducer(ctx, req.Storage, name)
	if resp != nil || err != nil {
		return resp, err
	}

	client, err := b.client(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	messageID, err := Publish(ctx, client, cred, producer.Topic, message,
		messageOptions, mergeRawOptions(producer.ProducerOptions, producerOptions))
	if err != nil {
		var publishErr *PublishError
		if errors.As(err, &publishErr) {
			b.Logger().Error("publish failed",
				"producer", name,
				"credential", producer.Credential,
				"topic", producer.Topic,
				"error", publishErr.Err,
			)
		}
		return logical.ErrorResponse("%s", err), nil
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"message_id": messageID,
		},
	}, nil
}

// loadProducer reads a producer and its credential. A non-nil response
// reports a caller error.
func (b *pulsarBackend) loadProducer(ctx context.Context, s logical.Storage, name string) (*ProducerEntry, RawCredential, *logical.Response, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	producer, err := getProducer(ctx, s, name)
	if err != nil {
		return nil, nil, nil, err
	}
	if producer == nil {
		return nil, nil, logical.ErrorResponse("producer %q not found", name), nil
	}

	cred, err := getCredential(ctx, s, producer.Credential)
	if err != nil {
		return nil, nil, nil, err
	}
	if cred == nil {
		return nil, nil, logical.ErrorResponse("credential %q not found for producer %q", producer.Credential, name), nil
	}

	return producer, cred, nil, nil
}
