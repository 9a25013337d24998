package pulsarproducer

import (
	"context"
	"strings"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
)

// credentialFields lists every stored credential field. Secret fields are
// never returned on read.
var credentialFields = []struct {
	name   string
	secret bool
}{
	{fieldPulsarServer, false},
	{fieldAuthType, false},
	{fieldUsername, false},
	{fieldPassword, true},
	{fieldJWTToken, true},
	{fieldRequireJWTVerification, false},
	{fieldClientCertificate, false},
	{fieldClientKey, true},
	{fieldCACertificate, false},
	{fieldIssuerURL, false},
	{fieldAudience, false},
	{fieldClientID, false},
	{fieldPrivateKey, true},
	{fieldAthenzDomain, false},
	{fieldServiceName, false},
	{fieldAthenzPrivateKey, true},
	{fieldZTSURL, false},
	{fieldAthenzCACert, false},
}

func pathConfigCredentials(b *pulsarBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "config/credentials/" + framework.GenericNameRegex("name"),
			Fields: map[string]*framework.FieldSchema{
				"name": {
					Type:        framework.TypeString,
					Description: "Name of the credential.",
					Required:    true,
				},
				fieldPulsarServer: {
					Type:        framework.TypeString,
					Description: "Pulsar connection string, e.g. pulsar://localhost:6650 or pulsar+ssl://host:6651.",
					Required:    true,
				},
				fieldAuthType: {
					Type:        framework.TypeString,
					Description: "Authentication type: none, basic, oidc, mtls, oauth or athenz.",
					Default:     string(AuthTypeNone),
					AllowedValues: []interface{}{
						string(AuthTypeNone), string(AuthTypeBasic), string(AuthTypeOIDC),
						string(AuthTypeMTLS), string(AuthTypeOAuth), string(AuthTypeAthenz),
					},
				},
				fieldUsername: {
					Type:        framework.TypeString,
					Description: "Username for basic authentication.",
				},
				fieldPassword: {
					Type:         framework.TypeString,
					Description:  "Password for basic authentication.",
					DisplayAttrs: &framework.DisplayAttributes{Sensitive: true},
				},
				fieldJWTToken: {
					Type:         framework.TypeString,
					Description:  "JWT for OIDC authentication.",
					DisplayAttrs: &framework.DisplayAttributes{Sensitive: true},
				},
				fieldRequireJWTVerification: {
					Type:        framework.TypeBool,
					Description: "Require verification of the OIDC token.",
					Default:     true,
				},
				fieldClientCertificate: {
					Type:        framework.TypeString,
					Description: "Absolute path of the PEM client certificate for mTLS.",
				},
				fieldClientKey: {
					Type:         framework.TypeString,
					Description:  "Absolute path of the PEM client key for mTLS.",
					DisplayAttrs: &framework.DisplayAttributes{Sensitive: true},
				},
				fieldCACertificate: {
					Type:        framework.TypeString,
					Description: "Absolute path of the PEM CA certificate for mTLS. Optional.",
				},
				fieldIssuerURL: {
					Type:        framework.TypeString,
					Description: "OAuth2 issuer URL.",
				},
				fieldAudience: {
					Type:        framework.TypeString,
					Description: "OAuth2 audience.",
				},
				fieldClientID: {
					Type:        framework.TypeString,
					Description: "OAuth2 client ID.",
				},
				fieldPrivateKey: {
					Type:         framework.TypeString,
					Description:  "Path or data URL (data:application/json;base64,...) of the pulsar-client-go OAuth2 key file holding type, client_id, client_secret and issuer_url.",
					DisplayAttrs: &framework.DisplayAttributes{Sensitive: true},
				},
				fieldAthenzDomain: {
					Type:        framework.TypeString,
					Description: "Athenz domain.",
				},
				fieldServiceName: {
					Type:        framework.TypeString,
					Description: "Athenz service name.",
				},
				fieldAthenzPrivateKey: {
					Type:         framework.TypeString,
					Description:  "PEM private key of the Athenz service, inline or as a file path or base64 data URI.",
					DisplayAttrs: &framework.DisplayAttributes{Sensitive: true},
				},
				fieldZTSURL: {
					Type:        framework.TypeString,
					Description: "Athenz ZTS URL.",
				},
				fieldAthenzCACert: {
					Type:        framework.TypeString,
					Description: "CA certificate for the Athenz ZTS server, inline PEM or a file path. Not used for the Pulsar connection. Optional.",
				},
				"verify_connection": {
					Type:        framework.TypeBool,
					Description: "Check that the Pulsar server is reachable with this credential before saving it.",
					Default:     true,
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.CreateOperation: &framework.PathOperation{
					Callback: b.pathConfigCredentialsWrite,
				},
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathConfigCredentialsWrite,
				},
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathConfigCredentialsRead,
				},
				logical.DeleteOperation: &framework.PathOperation{
					Callback: b.pathConfigCredentialsDelete,
				},
			},
			ExistenceCheck:  b.pathConfigCredentialsExistenceCheck,
			HelpSynopsis:    "Configure an Apache Pulsar credential.",
			HelpDescription: "Configure the connection string and authentication used to publish to an Apache Pulsar cluster.",
		},
		{
			Pattern: "config/credentials/?$",
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ListOperation: &framework.PathOperation{
					Callback: b.pathConfigCredentialsList,
				},
			},
			HelpSynopsis:    "List configured Pulsar credentials.",
			HelpDescription: "List the names of all configured Apache Pulsar credentials.",
		},
	}
}

func (b *pulsarBackend) pathConfigCredentialsExistenceCheck(ctx context.Context, req *logical.Request, d *framework.FieldData) (bool, error) {
	name := d.Get("name").(string)
	cred, err := getCredential(ctx, req.Storage, name)
	if err != nil {
		return false, err
	}
	return cred != nil, nil
}

func (b *pulsarBackend) pathConfigCredentialsWrite(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)

	cred := RawCredential{}
	for _, f := range credentialFields {
		if v, ok := d.GetOk(f.name); ok {
			cred[f.name] = v
		}
	}

	if err := ValidateCredential(cred); err != nil {
		return logical.ErrorResponse("%s", strings.TrimSpace(err.Error())), nil
	}

	if d.Get("verify_connection").(bool) {
		client, err := b.client(ctx, req.Storage)
		if err != nil {
			return nil, err
		}
		if !ProbeConnectivity(ctx, b.Logger(), client, cred.ConnectionString(), ResolveAuthentication(cred)) {
			return logical.ErrorResponse("cannot reach Pulsar server at %s", cred.ConnectionString()), nil
		}
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if err := putCredential(ctx, req.Storage, name, cred); err != nil {
		return nil, err
	}

	return nil, nil
}

func (b *pulsarBackend) pathConfigCredentialsRead(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)

	b.lock.RLock()
	defer b.lock.RUnlock()

	cred, err := getCredential(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, nil
	}

	data := map[string]interface{}{
		fieldAuthType: string(cred.authType()),
	}
	for _, f := range credentialFields {
		if f.secret {
			continue
		}
		if v, ok := cred[f.name]; ok {
			data[f.name] = v
		}
	}

	return &logical.Response{Data: data}, nil
}

func (b *pulsarBackend) pathConfigCredentialsDelete(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)

	b.lock.Lock()
	defer b.lock.Unlock()

	if err := deleteCredential(ctx, req.Storage, name); err != nil {
		return nil, err
	}

	return nil, nil
}

func (b *pulsarBackend) pathConfigCredentialsList(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	creds, err := listCredentials(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	return logical.ListResponse(creds), nil
}
