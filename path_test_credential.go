package pulsarproducer

import (
	"context"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
)

func pathTestCredential(b *pulsarBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "test-credential/" + framework.GenericNameRegex("name"),
			Fields: map[string]*framework.FieldSchema{
				"name": {
					Type:        framework.TypeString,
					Description: "Name of the credential to test.",
					Required:    true,
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.CreateOperation: &framework.PathOperation{
					Callback: b.pathTestCredentialWrite,
				},
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathTestCredentialWrite,
				},
			},
			ExistenceCheck:  b.pathConfigCredentialsExistenceCheck,
			HelpSynopsis:    "Test connectivity with a stored Pulsar credential.",
			HelpDescription: "Connects to the Pulsar server of the named credential and looks up the probe topic.",
		},
	}
}

func (b *pulsarBackend) pathTestCredentialWrite(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)

	b.lock.RLock()
	cred, err := getCredential(ctx, req.Storage, name)
	b.lock.RUnlock()
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return logical.ErrorResponse("credential %q not found", name), nil
	}

	client, err := b.client(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	if !ProbeConnectivity(ctx, b.Logger(), client, cred.ConnectionString(), ResolveAuthentication(cred)) {
		return logical.ErrorResponse("cannot reach Pulsar server at %s", cred.ConnectionString()), nil
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"accessible": true,
		},
	}, nil
}
