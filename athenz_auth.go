package pulsarproducer

import (
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/AthenZ/athenz/libs/go/zmssvctoken"
	"github.com/AthenZ/athenz/libs/go/ztsroletoken"
	"github.com/apache/pulsar-client-go/pulsar/auth"
)

const (
	athenzKeyID      = "0"
	athenzRoleHeader = "Athenz-Role-Auth"
	athenzMinExpire  = 2 * time.Hour
	athenzMaxExpire  = 24 * time.Hour
)

var _ auth.Provider = (*athenzProvider)(nil)

// athenzProvider authenticates with an Athenz role token. The service key is
// kept in memory; pulsar-client-go's own Athenz provider only loads keys from
// file paths or data URIs.
type athenzProvider struct {
	creds     AthenzAuth
	roleToken ztsroletoken.RoleToken
	transport http.RoundTripper
}

func newAthenzProvider(creds AthenzAuth) *athenzProvider {
	return &athenzProvider{creds: creds}
}

func (p *athenzProvider) Init() error {
	if p.creds.Domain == "" || p.creds.Service == "" || p.creds.PrivateKey == "" || p.creds.URL == "" {
		return errors.New("athenz: domain, service, private key and ZTS URL are required")
	}

	key, err := loadPEMValue(p.creds.PrivateKey)
	if err != nil {
		return fmt.Errorf("athenz private key: %w", err)
	}
	builder, err := zmssvctoken.NewTokenBuilder(p.creds.Domain, p.creds.Service, key, athenzKeyID)
	if err != nil {
		return fmt.Errorf("athenz token builder: %w", err)
	}

	opts := ztsroletoken.RoleTokenOptions{
		BaseZTSURL: strings.TrimSuffix(p.creds.URL, "/") + "/zts/v1",
		MinExpire:  athenzMinExpire,
		MaxExpire:  athenzMaxExpire,
	}
	// The CA only ever applies to the ZTS server, never to the broker.
	if p.creds.CACert != "" {
		if opts.CACert, err = loadPEMValue(p.creds.CACert); err != nil {
			return fmt.Errorf("athenz CA certificate: %w", err)
		}
	}

	p.roleToken = ztsroletoken.NewRoleToken(builder.Token(), p.creds.Domain, opts)
	return nil
}

func (p *athenzProvider) Name() string {
	return "athenz"
}

func (p *athenzProvider) GetTLSCertificate() (*tls.Certificate, error) {
	return nil, nil
}

func (p *athenzProvider) GetData() ([]byte, error) {
	tok, err := p.roleToken.RoleTokenValue()
	if err != nil {
		return nil, err
	}
	return []byte(tok), nil
}

func (p *athenzProvider) Close() error {
	return nil
}

func (p *athenzProvider) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, err := p.roleToken.RoleTokenValue()
	if err != nil {
		return nil, err
	}
	req.Header.Add(athenzRoleHeader, tok)
	return p.transport.RoundTrip(req)
}

func (p *athenzProvider) Transport() http.RoundTripper {
	return p.transport
}

func (p *athenzProvider) WithTransport(tripper http.RoundTripper) error {
	p.transport = tripper
	return nil
}

// loadPEMValue accepts inline PEM text, a base64 data URI or a file path
// (optionally prefixed with file:).
func loadPEMValue(value string) ([]byte, error) {
	switch {
	case strings.Contains(value, "-----BEGIN "):
		return []byte(value), nil
	case strings.HasPrefix(value, "data:"):
		meta, data, ok := strings.Cut(strings.TrimPrefix(value, "data:"), ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return nil, errors.New("data URI must be base64 encoded")
		}
		return base64.StdEncoding.DecodeString(data)
	case strings.HasPrefix(value, "file:"):
		return os.ReadFile(strings.TrimPrefix(strings.TrimPrefix(value, "file:"), "//"))
	default:
		return os.ReadFile(value)
	}
}
