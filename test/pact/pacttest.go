//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "storefront-web"

	StateCatalogBaseline = "the launch collection is seeded"
	StateFeaturedExists  = "coral-hoodie is featured"
	StateProductMissing  = "no product with slug ghost-hoodie"
	StateOrdersBaseline  = "orders baseline"
)

const (
	ExistingSlug = "coral-hoodie"
	MissingSlug  = "ghost-hoodie"

	CustomerName   = "Pact Customer"
	CustomerEmail  = "pact.customer@example.com"
	IdempotencyKey = "pact-checkout-1"
)

// ExampleProductPayload is the shape the storefront expects for a product page.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":         "7d4c5a0e-8c1d-4a57-9d4b-2b1f5d0a9e11",
		"slug":       ExistingSlug,
		"name":       "Coral Fleece Hoodie",
		"price":      "€280",
		"discount":   15,
		"image":      "/images/red_hoodie.png",
		"images":     []string{"/images/red_hoodie.png"},
		"details":    []string{"Premium fleece construction"},
		"isFeatured": false,
		"isHidden":   false,
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
