package pulsarproducer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/vault/sdk/logical"
)

func TestPathPublish_WithOptions(t *testing.T) {
	b, storage, client := getTestBackend(t)
	ctx := context.Background()

	writeCredential(t, b, storage, "test-cred")
	writeProducer(t, b, storage, "events", "test-cred")

	req := &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "publish/events",
		Storage:   storage,
		Data: map[string]interface{}{
			"message": `{"order":42}`,
			"message_options": map[string]interface{}{
				"key": "order-42",
				"properties": map[string]interface{}{
					"property": []interface{}{
						map[string]interface{}{"key": "source", "value": "vault"},
					},
				},
				"replicationClusters": map[string]interface{}{
					"items": []interface{}{
						map[string]interface{}{"clusterName": "us-east"},
						map[string]interface{}{"clusterName": "us-west"},
					},
				},
			},
			"producer_options": map[string]interface{}{
				"name": "override",
			},
		},
	}
	resp, err := b.HandleRequest(ctx, req)
	if err != nil || resp == nil || resp.IsError() {
		t.Fatalf("publish: err=%v, resp=%v", err, resp)
	}

	if len(client.publishes) != 1 {
		t.Fatalf("publish calls = %d, want 1", len(client.publishes))
	}
	opts := client.publishes[0].opts
	if opts.Key != "order-42" {
		t.Errorf("key = %q, want order-42", opts.Key)
	}
	if opts.Properties["source"] != "vault" {
		t.Errorf("properties = %v", opts.Properties)
	}
	if len(opts.ReplicationClusters) != 2 || opts.ReplicationClusters[0] != "us-east" || opts.ReplicationClusters[1] != "us-west" {
		t.Errorf("replication clusters = %v", opts.ReplicationClusters)
	}
	if opts.Name != "override" {
		t.Errorf("producer name = %q, want override", opts.Name)
	}
	if opts.Timeout == nil || *opts.Timeout != 30 {
		t.Errorf("timeout = %v, want 30", opts.Timeout)
	}
}

func TestPathPublish_Failure(t *testing.T) {
	b, storage, client := getTestBackend(t)
	ctx := context.Background()

	writeCredential(t, b, storage, "test-cred")
	writeProducer(t, b, storage, "events", "test-cred")
	client.publishErr = errors.New("timeout")

	req := &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "publish/events",
		Storage:   storage,
		Data: map[string]interface{}{
			"message": "hello",
		},
	}
	resp, err := b.HandleRequest(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || !resp.IsError() {
		t.Fatal("expected error response for failed publish")
	}
	if msg := resp.Error().Error(); !strings.Contains(msg, "failed to publish message") || !strings.Contains(msg, "timeout") {
		t.Errorf("error = %q", msg)
	}
	if len(client.publishes) != 1 {
		t.Errorf("publish calls = %d, want exactly 1", len(client.publishes))
	}
}

func TestPathPublish_ProducerNotFound(t *testing.T) {
	b, storage, client := getTestBackend(t)
	ctx := context.Background()

	req := &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "publish/nonexistent",
		Storage:   storage,
		Data: map[string]interface{}{
			"message": "hello",
		},
	}
	resp, err := b.HandleRequest(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || !resp.IsError() {
		t.Error("expected error for nonexistent producer")
	}
	if len(client.publishes) != 0 {
		t.Error("nothing should be published")
	}
}

func TestPathPublish_CredentialDeleted(t *testing.T) {
	b, storage, client := getTestBackend(t)
	ctx := context.Background()

	writeCredential(t, b, storage, "test-cred")
	writeProducer(t, b, storage, "events", "test-cred")
	if err := deleteCredential(ctx, storage, "test-cred"); err != nil {
		t.Fatalf("deleteCredential: %v", err)
	}

	req := &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "publish/events",
		Storage:   storage,
		Data: map[string]interface{}{
			"message": "hello",
		},
	}
	resp, err := b.HandleRequest(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || !resp.IsError() {
		t.Error("expected error when the producer's credential is gone")
	}
	if len(client.publishes) != 0 {
		t.Error("nothing should be published")
	}
}

func TestPathPublish_MissingMessage(t *testing.T) {
	b, storage, _ := getTestBackend(t)
	ctx := context.Background()

	writeCredential(t, b, storage, "test-cred")
	writeProducer(t, b, storage, "events", "test-cred")

	req := &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "publish/events",
		Storage:   storage,
	}
	resp, err := b.HandleRequest(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || !resp.IsError() {
		t.Error("expected error for missing message")
	}
}
