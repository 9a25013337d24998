package pulsarproducer

import (
	"context"
	"sync"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
)

const backendHelp = "The Pulsar producer secrets engine stores Apache Pulsar credentials and publishes messages with them."

type pulsarBackend struct {
	*framework.Backend

	// lock guards credential and producer entries.
	lock      sync.RWMutex
	newClient clientFactory
}

func Factory(ctx context.Context, conf *logical.BackendConfig) (logical.Backend, error) {
	b := backend()
	if err := b.Setup(ctx, conf); err != nil {
		return nil, err
	}
	return b, nil
}

func backend() *pulsarBackend {
	b := &pulsarBackend{
		newClient: NewPulsarClient,
	}

	b.Backend = &framework.Backend{
		Help:        backendHelp,
		BackendType: logical.TypeLogical,
		PathsSpecial: &logical.Paths{
			SealWrapStorage: []string{
				"config/credentials/*",
			},
		},
		Paths: framework.PathAppend(
			pathConfig(b),
			pathConfigCredentials(b),
			pathTestCredential(b),
			pathProducers(b),
			pathPublish(b),
		),
	}

	return b
}

// client returns a Pulsar client configured from the stored settings.
func (b *pulsarBackend) client(ctx context.Context, s logical.Storage) (Client, error) {
	settings, err := getSettings(ctx, s)
	if err != nil {
		return nil, err
	}
	return b.newClient(settings, b.Logger()), nil
}
