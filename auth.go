package pulsarproducer

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
)

// Credential field names.
const (
	fieldPulsarServer           = "pulsar_server"
	fieldAuthType               = "auth_type"
	fieldUsername               = "username"
	fieldPassword               = "password"
	fieldJWTToken               = "jwt_token"
	fieldRequireJWTVerification = "require_jwt_verification"
	fieldClientCertificate      = "client_certificate"
	fieldClientKey              = "client_key"
	fieldCACertificate          = "ca_certificate"
	fieldIssuerURL              = "issuer_url"
	fieldAudience               = "audience"
	fieldClientID               = "client_id"
	fieldPrivateKey             = "private_key"
	fieldAthenzDomain           = "athenz_domain"
	fieldServiceName            = "service_name"
	fieldAthenzPrivateKey       = "athenz_private_key"
	fieldZTSURL                 = "zts_url"
	fieldAthenzCACert           = "athenz_ca_cert"
)

// ResolveAuthentication turns a raw credential into an AuthDescriptor. It
// never fails: an unknown or missing auth_type yields NoAuth and missing
// sub-fields are left empty. Use ValidateCredential to enforce required fields.
func ResolveAuthentication(raw RawCredential) AuthDescriptor {
	switch raw.authType() {
	case AuthTypeBasic:
		return BasicAuth{
			Username: raw.Field(fieldUsername),
			Password: raw.Field(fieldPassword),
		}
	case AuthTypeOIDC:
		return OIDCAuth{
			Token:           raw.Field(fieldJWTToken),
			AllowUnverified: !raw.Flag(fieldRequireJWTVerification, true),
		}
	case AuthTypeMTLS:
		return MTLSAuth{
			CertPath: raw.Field(fieldClientCertificate),
			KeyPath:  raw.Field(fieldClientKey),
			CACert:   raw.Field(fieldCACertificate),
		}
	case AuthTypeOAuth:
		return OAuth2Auth{
			Issuer:     raw.Field(fieldIssuerURL),
			Audience:   raw.Field(fieldAudience),
			ClientID:   raw.Field(fieldClientID),
			PrivateKey: raw.Field(fieldPrivateKey),
		}
	case AuthTypeAthenz:
		return AthenzAuth{
			Domain:     raw.Field(fieldAthenzDomain),
			Service:    raw.Field(fieldServiceName),
			PrivateKey: raw.Field(fieldAthenzPrivateKey),
			URL:        raw.Field(fieldZTSURL),
			CACert:     raw.Field(fieldAthenzCACert),
		}
	default:
		return NoAuth{}
	}
}

var requiredCredentialFields = map[AuthType][]string{
	AuthTypeNone:   nil,
	AuthTypeBasic:  {fieldUsername, fieldPassword},
	AuthTypeOIDC:   {fieldJWTToken},
	AuthTypeMTLS:   {fieldClientCertificate, fieldClientKey},
	AuthTypeOAuth:  {fieldIssuerURL, fieldAudience, fieldClientID, fieldPrivateKey},
	AuthTypeAthenz: {fieldAthenzDomain, fieldServiceName, fieldAthenzPrivateKey, fieldZTSURL},
}

// ValidateCredential reports every missing required field of raw at once.
func ValidateCredential(raw RawCredential) error {
	var result *multierror.Error

	if raw.ConnectionString() == "" {
		result = multierror.Append(result, fmt.Errorf("%s is required", fieldPulsarServer))
	}

	authType := raw.authType()
	required, known := requiredCredentialFields[authType]
	if !known {
		result = multierror.Append(result, fmt.Errorf("unsupported %s %q", fieldAuthType, authType))
	}
	for _, field := range required {
		if raw.Field(field) == "" {
			result = multierror.Append(result, fmt.Errorf("%s is required for %s authentication", field, authType))
		}
	}

	return result.ErrorOrNil()
}

// ConnectionString returns the Pulsar service URL of the credential.
func (c RawCredential) ConnectionString() string {
	return c.Field(fieldPulsarServer)
}

func (c RawCredential) authType() AuthType {
	t := c.Field(fieldAuthType)
	if t == "" {
		return AuthTypeNone
	}
	return AuthType(t)
}

// Field returns the field as a string, or "" when it is absent or cannot be
// coerced.
func (c RawCredential) Field(key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	var s string
	if err := mapstructure.WeakDecode(v, &s); err != nil {
		return ""
	}
	return s
}

// Flag returns the field as a bool, or def when it is absent or cannot be
// coerced.
func (c RawCredential) Flag(key string, def bool) bool {
	v, ok := c[key]
	if !ok || v == nil {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	var b bool
	if err := mapstructure.WeakDecode(v, &b); err != nil {
		return def
	}
	return b
}
