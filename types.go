package pulsarproducer

import "time"

// AuthType names an authentication scheme supported by the Pulsar client.
type AuthType string

const (
	AuthTypeNone   AuthType = "none"
	AuthTypeBasic  AuthType = "basic"
	AuthTypeOIDC   AuthType = "oidc"
	AuthTypeMTLS   AuthType = "mtls"
	AuthTypeOAuth  AuthType = "oauth"
	AuthTypeAthenz AuthType = "athenz"
)

// AuthDescriptor is the normalized authentication configuration handed to the
// Pulsar client. The set of implementations is closed.
type AuthDescriptor interface {
	Type() AuthType
	isAuthDescriptor()
}

// NoAuth connects without authentication.
type NoAuth struct{}

// BasicAuth authenticates with a username and password.
type BasicAuth struct {
	Username string
	Password string
}

// OIDCAuth authenticates with a JWT issued by an OpenID Connect provider.
type OIDCAuth struct {
	Token           string
	AllowUnverified bool
}

// MTLSAuth authenticates with a client certificate. Paths are on the plugin host.
type MTLSAuth struct {
	CertPath string
	KeyPath  string
	CACert   string
}

// OAuth2Auth authenticates with the OAuth 2.0 client credentials flow.
type OAuth2Auth struct {
	Issuer     string
	Audience   string
	ClientID   string
	PrivateKey string
}

// AthenzAuth authenticates with an Athenz role token fetched from ZTS.
type AthenzAuth struct {
	Domain     string
	Service    string
	PrivateKey string
	URL        string
	CACert     string
}

func (NoAuth) Type() AuthType     { return AuthTypeNone }
func (BasicAuth) Type() AuthType  { return AuthTypeBasic }
func (OIDCAuth) Type() AuthType   { return AuthTypeOIDC }
func (MTLSAuth) Type() AuthType   { return AuthTypeMTLS }
func (OAuth2Auth) Type() AuthType { return AuthTypeOAuth }
func (AthenzAuth) Type() AuthType { return AuthTypeAthenz }

func (NoAuth) isAuthDescriptor()     {}
func (BasicAuth) isAuthDescriptor()  {}
func (OIDCAuth) isAuthDescriptor()   {}
func (MTLSAuth) isAuthDescriptor()   {}
func (OAuth2Auth) isAuthDescriptor() {}
func (AthenzAuth) isAuthDescriptor() {}

// RawCredential is a credential record as written by an operator, keyed by
// field name. Which fields are present depends on auth_type.
type RawCredential map[string]interface{}

// MessageOptions are per-message send options.
type MessageOptions struct {
	DeliverAt           *time.Time        `json:"deliverAt,omitempty"`
	DeliverAfter        *int64            `json:"deliverAfter,omitempty"`
	EventTime           *time.Time        `json:"eventTime,omitempty"`
	Key                 string            `json:"key,omitempty"`
	OrderingKey         string            `json:"orderingKey,omitempty"`
	SequenceID          *int64            `json:"sequenceId,omitempty"`
	Properties          map[string]string `json:"properties,omitempty"`
	ReplicationClusters []string          `json:"replicationClusters,omitempty"`
}

// ProducerOptions configure the producer used for a single publish.
type ProducerOptions struct {
	Name               string            `json:"name,omitempty"`
	Timeout            *int              `json:"timeout,omitempty"`
	ProducerProperties map[string]string `json:"producer-properties,omitempty"`
}

// PublishOptions is everything the Pulsar client needs besides the topic
// address and payload. Authorization is nil when no authentication applies.
type PublishOptions struct {
	MessageOptions
	ProducerOptions
	Authorization AuthDescriptor `json:"-"`
}

// ClientSettings are plugin-wide Pulsar client settings.
type ClientSettings struct {
	ConnectionTimeout time.Duration `json:"connection_timeout"`
	OperationTimeout  time.Duration `json:"operation_timeout"`
	ProbeTopic        string        `json:"probe_topic"`
}

// ProducerEntry binds a stored credential to a topic and producer options.
type ProducerEntry struct {
	Credential      string                 `json:"credential"`
	Topic           string                 `json:"topic"`
	ProducerOptions map[string]interface{} `json:"producer_options,omitempty"`
}
