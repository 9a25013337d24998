package pulsarproducer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/vault/sdk/logical"
)

func TestPathTestCredential_Accessible(t *testing.T) {
	b, storage, client := getTestBackend(t)
	ctx := context.Background()

	writeCredential(t, b, storage, "test-cred")

	req := &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "test-credential/test-cred",
		Storage:   storage,
	}
	resp, err := b.HandleRequest(ctx, req)
	if err != nil || resp == nil || resp.IsError() {
		t.Fatalf("test credential: err=%v, resp=%v", err, resp)
	}
	if resp.Data["accessible"] != true {
		t.Errorf("accessible = %v, want true", resp.Data["accessible"])
	}

	// One check on write, one on test
	if len(client.tests) != 2 {
		t.Fatalf("connectivity checks = %d, want 2", len(client.tests))
	}
	last := client.tests[1]
	if last.connectionString != "pulsar://localhost:6650" {
		t.Errorf("connection string = %q", last.connectionString)
	}
	if want := (BasicAuth{Username: "producer", Password: "secret"}); last.auth != want {
		t.Errorf("auth = %#v, want %#v", last.auth, want)
	}
}

func TestPathTestCredential_Unreachable(t *testing.T) {
	b, storage, client := getTestBackend(t)
	ctx := context.Background()

	writeCredential(t, b, storage, "test-cred")
	client.testErr = errors.New("lookup timed out")

	req := &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "test-credential/test-cred",
		Storage:   storage,
	}
	resp, err := b.HandleRequest(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || !resp.IsError() {
		t.Fatal("expected error response for unreachable server")
	}
	if !strings.Contains(resp.Error().Error(), "cannot reach Pulsar server at pulsar://localhost:6650") {
		t.Errorf("error = %q", resp.Error())
	}
	if strings.Contains(resp.Error().Error(), "lookup timed out") {
		t.Error("probe error should not leak into the response")
	}
}

func TestPathTestCredential_UsesStoredSettings(t *testing.T) {
	b, storage, client := getTestBackend(t)
	ctx := context.Background()

	req := &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "config",
		Storage:   storage,
		Data: map[string]interface{}{
			"probe_topic": "persistent://ops/health/ping",
		},
	}
	if resp, err := b.HandleRequest(ctx, req); err != nil || (resp != nil && resp.IsError()) {
		t.Fatalf("write config: err=%v, resp=%v", err, resp)
	}

	writeCredential(t, b, storage, "test-cred")

	req = &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "test-credential/test-cred",
		Storage:   storage,
	}
	if resp, err := b.HandleRequest(ctx, req); err != nil || resp == nil || resp.IsError() {
		t.Fatalf("test credential: err=%v, resp=%v", err, resp)
	}
	if client.settings == nil || client.settings.ProbeTopic != "persistent://ops/health/ping" {
		t.Errorf("client settings = %#v", client.settings)
	}
}

func TestPathTestCredential_NotFound(t *testing.T) {
	b, storage, _ := getTestBackend(t)
	ctx := context.Background()

	req := &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "test-credential/nonexistent",
		Storage:   storage,
	}
	resp, err := b.HandleRequest(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || !resp.IsError() {
		t.Error("expected error for nonexistent credential")
	}
}
