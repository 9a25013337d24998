package pulsarproducer

import (
	"context"
	"testing"
	"time"

	"github.com/hashicorp/vault/sdk/logical"
)

func TestPathConfig_Defaults(t *testing.T) {
	b, storage, _ := getTestBackend(t)

	req := &logical.Request{
		Operation: logical.ReadOperation,
		Path:      "config",
		Storage:   storage,
	}
	resp, err := b.HandleRequest(context.Background(), req)
	if err != nil || resp == nil {
		t.Fatalf("read: err=%v, resp=%v", err, resp)
	}
	if resp.Data["connection_timeout"] != 5 {
		t.Errorf("connection_timeout = %v, want 5", resp.Data["connection_timeout"])
	}
	if resp.Data["operation_timeout"] != 30 {
		t.Errorf("operation_timeout = %v, want 30", resp.Data["operation_timeout"])
	}
	if resp.Data["probe_topic"] != defaultProbeTopic {
		t.Errorf("probe_topic = %v, want %s", resp.Data["probe_topic"], defaultProbeTopic)
	}
}

func TestPathConfig_WriteRead(t *testing.T) {
	b, storage, _ := getTestBackend(t)
	ctx := context.Background()

	req := &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "config",
		Storage:   storage,
		Data: map[string]interface{}{
			"operation_timeout": 10,
		},
	}
	resp, err := b.HandleRequest(ctx, req)
	if err != nil || (resp != nil && resp.IsError()) {
		t.Fatalf("write: err=%v, resp=%v", err, resp)
	}

	settings, err := getSettings(ctx, storage)
	if err != nil {
		t.Fatalf("getSettings: %v", err)
	}
	if settings.OperationTimeout != 10*time.Second {
		t.Errorf("OperationTimeout = %v, want 10s", settings.OperationTimeout)
	}
	if settings.ConnectionTimeout != defaultConnectionTimeout {
		t.Errorf("ConnectionTimeout = %v, want %v", settings.ConnectionTimeout, defaultConnectionTimeout)
	}

	req = &logical.Request{
		Operation: logical.ReadOperation,
		Path:      "config",
		Storage:   storage,
	}
	resp, err = b.HandleRequest(ctx, req)
	if err != nil || resp == nil {
		t.Fatalf("read: err=%v, resp=%v", err, resp)
	}
	if resp.Data["operation_timeout"] != 10 {
		t.Errorf("operation_timeout = %v, want 10", resp.Data["operation_timeout"])
	}
}

func TestPathConfig_ValidationErrors(t *testing.T) {
	b, storage, _ := getTestBackend(t)

	req := &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "config",
		Storage:   storage,
		Data: map[string]interface{}{
			"connection_timeout": 0,
		},
	}
	resp, err := b.HandleRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || !resp.IsError() {
		t.Error("expected error response for zero connection_timeout")
	}
}
