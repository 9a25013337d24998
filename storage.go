package pulsarproducer

import (
	"context"
	"encoding/json"

	"github.com/hashicorp/vault/sdk/logical"
)

const (
	settingsStorageKey      = "config"
	credentialStoragePrefix = "config/credentials/"
	producerStoragePrefix   = "producers/"
)

func getEntry[T any](ctx context.Context, s logical.Storage, path string) (*T, error) {
	entry, err := s.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	var result T
	if err := json.Unmarshal(entry.Value, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func putEntry(ctx context.Context, s logical.Storage, path string, data interface{}) error {
	entry, err := logical.StorageEntryJSON(path, data)
	if err != nil {
		return err
	}
	return s.Put(ctx, entry)
}

func getSettings(ctx context.Context, s logical.Storage) (*ClientSettings, error) {
	return getEntry[ClientSettings](ctx, s, settingsStorageKey)
}

func putSettings(ctx context.Context, s logical.Storage, settings *ClientSettings) error {
	return putEntry(ctx, s, settingsStorageKey, settings)
}

func getCredential(ctx context.Context, s logical.Storage, name string) (RawCredential, error) {
	cred, err := getEntry[RawCredential](ctx, s, credentialStoragePrefix+name)
	if err != nil || cred == nil {
		return nil, err
	}
	return *cred, nil
}

func putCredential(ctx context.Context, s logical.Storage, name string, cred RawCredential) error {
	return putEntry(ctx, s, credentialStoragePrefix+name, cred)
}

func deleteCredential(ctx context.Context, s logical.Storage, name string) error {
	return s.Delete(ctx, credentialStoragePrefix+name)
}

func listCredentials(ctx context.Context, s logical.Storage) ([]string, error) {
	return s.List(ctx, credentialStoragePrefix)
}

func getProducer(ctx context.Context, s logical.Storage, name string) (*ProducerEntry, error) {
	return getEntry[ProducerEntry](ctx, s, producerStoragePrefix+name)
}

func putProducer(ctx context.Context, s logical.Storage, name string, producer *ProducerEntry) error {
	return putEntry(ctx, s, producerStoragePrefix+name, producer)
}

func deleteProducer(ctx context.Context, s logical.Storage, name string) error {
	return s.Delete(ctx, producerStoragePrefix+name)
}

func listProducers(ctx context.Context, s logical.Storage) ([]string, error) {
	return s.List(ctx, producerStoragePrefix)
}
