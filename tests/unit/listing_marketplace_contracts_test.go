package unit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func loadEventSchema(t *testing.T, name string) map[string]any {
	t.Helper()
	root, err := findRepoRoot()
	if err != nil {
		t.Fatalf("resolve repo root: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(root, "contracts", "events", "v1", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		t.Fatalf("decode %s: %v", name, err)
	}
	return schema
}

func assertCanonicalEnvelope(t *testing.T, schema map[string]any, eventType string, partitionKeyPath string) {
	t.Helper()

	requiredEnvelopeFields := []string{
		"event_id",
		"event_type",
		"occurred_at",
		"source_service",
		"trace_id",
		"schema_version",
		"partition_key_path",
		"partition_key",
		"data",
	}
	required, _ := schema["required"].([]any)
	for _, key := range requiredEnvelopeFields {
		if !containsAnyString(required, key) {
			t.Fatalf("%s schema missing required envelope key %s", eventType, key)
		}
	}

	properties, _ := schema["properties"].(map[string]any)
	eventTypeProp, _ := properties["event_type"].(map[string]any)
	if eventConst, _ := eventTypeProp["const"].(string); eventConst != eventType {
		t.Fatalf("schema has wrong event_type const: %q, want %q", eventConst, eventType)
	}
	partitionPathProp, _ := properties["partition_key_path"].(map[string]any)
	if partitionConst, _ := partitionPathProp["const"].(string); partitionConst != partitionKeyPath {
		t.Fatalf("%s schema has wrong partition_key_path const: %q", eventType, partitionConst)
	}
}

func TestMarketplaceEventSchemasMatchCanonicalEnvelope(t *testing.T) {
	assertCanonicalEnvelope(t,
		loadEventSchema(t, "marketplace.offered.schema.json"),
		"marketplace.offered", "listing_id")
	assertCanonicalEnvelope(t,
		loadEventSchema(t, "marketplace.bought.schema.json"),
		"marketplace.bought", "listing_id")
}

func TestRegistryEventSchemasMatchCanonicalEnvelope(t *testing.T) {
	assertCanonicalEnvelope(t,
		loadEventSchema(t, "token.minted.schema.json"),
		"token.minted", "token_id")
	assertCanonicalEnvelope(t,
		loadEventSchema(t, "token.transferred.schema.json"),
		"token.transferred", "token_id")
}

func TestMarketplaceOpenAPIContractIncludesImplementedRoutes(t *testing.T) {
	root, err := findRepoRoot()
	if err != nil {
		t.Fatalf("resolve repo root: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "contracts", "api", "v1", "listing-marketplace.openapi.json"))
	if err != nil {
		t.Fatalf("read listing-marketplace openapi: %v", err)
	}

	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode listing-marketplace openapi: %v", err)
	}

	expected := map[string][]string{
		"/v1/marketplace/listings":                          {"get", "post"},
		"/v1/marketplace/listings/{listing_id}":             {"get"},
		"/v1/marketplace/listings/{listing_id}/total-price": {"get"},
		"/v1/marketplace/listings/{listing_id}/purchase":    {"post"},
		"/v1/marketplace/accounts/{account}/balance":        {"get"},
		"/v1/marketplace/info":                              {"get"},
	}
	for path, methods := range expected {
		ops, ok := doc.Paths[path]
		if !ok {
			t.Fatalf("missing path in openapi contract: %s", path)
		}
		for _, method := range methods {
			if _, ok := ops[method]; !ok {
				t.Fatalf("missing method %s for path %s in openapi contract", method, path)
			}
		}
	}
}

func TestTokenRegistryOpenAPIContractIncludesImplementedRoutes(t *testing.T) {
	root, err := findRepoRoot()
	if err != nil {
		t.Fatalf("resolve repo root: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "contracts", "api", "v1", "token-registry.openapi.json"))
	if err != nil {
		t.Fatalf("read token-registry openapi: %v", err)
	}

	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode token-registry openapi: %v", err)
	}

	expected := map[string][]string{
		"/v1/tokens/mint":                   {"post"},
		"/v1/tokens/{token_id}":             {"get"},
		"/v1/tokens/{token_id}/transfer":    {"post"},
		"/v1/tokens/approvals":              {"post"},
		"/v1/tokens/owners/{owner}/balance": {"get"},
	}
	for path, methods := range expected {
		ops, ok := doc.Paths[path]
		if !ok {
			t.Fatalf("missing path in openapi contract: %s", path)
		}
		for _, method := range methods {
			if _, ok := ops[method]; !ok {
				t.Fatalf("missing method %s for path %s in openapi contract", method, path)
			}
		}
	}
}

func containsAnyString(items []any, target string) bool {
	for _, item := range items {
		if value, ok := item.(string); ok && value == target {
			return true
		}
	}
	return false
}
