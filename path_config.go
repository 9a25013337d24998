package pulsarproducer

import (
	"context"
	"time"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
)

func pathConfig(b *pulsarBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "config",
			Fields: map[string]*framework.FieldSchema{
				"connection_timeout": {
					Type:        framework.TypeDurationSecond,
					Description: "Timeout for establishing a TCP connection to Pulsar, in seconds.",
					Default:     int(defaultConnectionTimeout.Seconds()),
				},
				"operation_timeout": {
					Type:        framework.TypeDurationSecond,
					Description: "Timeout for lookups and producer creation, in seconds.",
					Default:     int(defaultOperationTimeout.Seconds()),
				},
				"probe_topic": {
					Type:        framework.TypeString,
					Description: "Topic looked up when testing a credential.",
					Default:     defaultProbeTopic,
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathConfigRead,
				},
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathConfigWrite,
				},
			},
			HelpSynopsis:    "Configure the Pulsar client.",
			HelpDescription: "Configure connection and operation timeouts and the topic used for connectivity checks.",
		},
	}
}

func (b *pulsarBackend) pathConfigRead(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	settings, err := getSettings(ctx, req.Storage)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		defaults := defaultClientSettings()
		settings = &defaults
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"connection_timeout": int(settings.ConnectionTimeout.Seconds()),
			"operation_timeout":  int(settings.OperationTimeout.Seconds()),
			"probe_topic":        settings.ProbeTopic,
		},
	}, nil
}

func (b *pulsarBackend) pathConfigWrite(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	settings, err := getSettings(ctx, req.Storage)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		defaults := defaultClientSettings()
		settings = &defaults
	}

	if v, ok := d.GetOk("connection_timeout"); ok {
		settings.ConnectionTimeout = time.Duration(v.(int)) * time.Second
	}
	if v, ok := d.GetOk("operation_timeout"); ok {
		settings.OperationTimeout = time.Duration(v.(int)) * time.Second
	}
	if v, ok := d.GetOk("probe_topic"); ok {
		settings.ProbeTopic = v.(string)
	}

	if settings.ConnectionTimeout <= 0 {
		return logical.ErrorResponse("connection_timeout must be positive"), nil
	}
	if settings.OperationTimeout <= 0 {
		return logical.ErrorResponse("operation_timeout must be positive"), nil
	}
	if settings.ProbeTopic == "" {
		return logical.ErrorResponse("probe_topic is required"), nil
	}

	if err := putSettings(ctx, req.Storage, settings); err != nil {
		return nil, err
	}

	return nil, nil
}
