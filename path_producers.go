package pulsarproducer

import (
	"context"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
)

func pathProducers(b *pulsarBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "producers/" + framework.GenericNameRegex("name"),
			Fields: map[string]*framework.FieldSchema{
				"name": {
					Type:        framework.TypeString,
					Description: "Name of the producer.",
					Required:    true,
				},
				"credential": {
					Type:        framework.TypeString,
					Description: "Name of the credential to publish with.",
					Required:    true,
				},
				"topic": {
					Type:        framework.TypeString,
					Description: "Topic to publish to, e.g. persistent://public/default/test.",
					Required:    true,
				},
				"producer_options": {
					Type:        framework.TypeMap,
					Description: "Producer options: name, timeout (seconds) and properties.property[{key, value}].",
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.CreateOperation: &framework.PathOperation{
					Callback: b.pathProducersWrite,
				},
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathProducersWrite,
				},
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathProducersRead,
				},
				logical.DeleteOperation: &framework.PathOperation{
					Callback: b.pathProducersDelete,
				},
			},
			ExistenceCheck:  b.pathProducersExistenceCheck,
			HelpSynopsis:    "Manage producers that publish to a Pulsar topic.",
			HelpDescription: "Create, read, update, or delete a producer that binds a credential to a topic and producer options.",
		},
		{
			Pattern: "producers/?$",
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ListOperation: &framework.PathOperation{
					Callback: b.pathProducersList,
				},
			},
			HelpSynopsis:    "List configured producers.",
			HelpDescription: "List the names of all configured producers.",
		},
	}
}

func (b *pulsarBackend) pathProducersExistenceCheck(ctx context.Context, req *logical.Request, d *framework.FieldData) (bool, error) {
	name := d.Get("name").(string)
	producer, err := getProducer(ctx, req.Storage, name)
	if err != nil {
		return false, err
	}
	return producer != nil, nil
}

func (b *pulsarBackend) pathProducersWrite(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)
	credential := d.Get("credential").(string)
	topic := d.Get("topic").(string)
	producerOptions := d.Get("producer_options").(map[string]interface{})

	if credential == "" {
		return logical.ErrorResponse("credential is required"), nil
	}
	if topic == "" {
		return logical.ErrorResponse("topic is required"), nil
	}
	if _, err := BuildProducerOptions(producerOptions); err != nil {
		return logical.ErrorResponse("invalid producer_options: %s", err), nil
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	// Verify the referenced credential exists
	cred, err := getCredential(ctx, req.Storage, credential)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return logical.ErrorResponse("credential %q not found", credential), nil
	}

	producer := &ProducerEntry{
		Credential:      credential,
		Topic:           topic,
		ProducerOptions: producerOptions,
	}
	if err := putProducer(ctx, req.Storage, name, producer); err != nil {
		return nil, err
	}

	return nil, nil
}

func (b *pulsarBackend) pathProducersRead(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)

	b.lock.RLock()
	defer b.lock.RUnlock()

	producer, err := getProducer(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}
	if producer == nil {
		return nil, nil
	}

	data := map[string]interface{}{
		"credential": producer.Credential,
		"topic":      producer.Topic,
	}
	if len(producer.ProducerOptions) > 0 {
		data["producer_options"] = producer.ProducerOptions
	}

	return &logical.Response{Data: data}, nil
}

func (b *pulsarBackend) pathProducersDelete(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)

	b.lock.Lock()
	defer b.lock.Unlock()

	if err := deleteProducer(ctx, req.Storage, name); err != nil {
		return nil, err
	}

	return nil, nil
}

func (b *pulsarBackend) pathProducersList(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	producers, err := listProducers(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	return logical.ListResponse(producers), nil
}
