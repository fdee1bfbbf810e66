//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/storefront"
	pacttest "github.com/Apurer/go-gin-storefront/test/pact"
)

func TestStorefrontWebContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	example := pacttest.ExampleProductPayload()
	productMatcher := matchers.Map{
		"id":         matchers.Like(example["id"]),
		"slug":       matchers.Like(example["slug"]),
		"name":       matchers.Like(example["name"]),
		"price":      matchers.Term("€280", `^€\d+(\.\d{2})?$`),
		"discount":   matchers.Like(15),
		"image":      matchers.Like(example["image"]),
		"images":     matchers.ArrayMinLike("/images/red_hoodie.png", 1),
		"details":    matchers.ArrayMinLike("Premium fleece construction", 1),
		"isFeatured": matchers.Like(false),
		"isHidden":   matchers.Like(false),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a request for a product page").
		WithRequest("GET", "/api/products/"+pacttest.ExistingSlug).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateFeaturedExists).
		UponReceiving("a request for featured products").
		WithRequest("GET", "/api/products/featured").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(matchers.Map{
				"slug":       matchers.Like(pacttest.ExistingSlug),
				"isFeatured": matchers.Like(true),
			}, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a missing product").
		WithRequest("GET", "/api/products/"+pacttest.MissingSlug).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"status": matchers.Like(http.StatusNotFound),
				"detail": matchers.S("Product not found"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("a checkout submission").
		WithRequest("POST", "/api/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Idempotency-Key", matchers.Like(pacttest.IdempotencyKey))
			b.JSONBody(matchers.Map{
				"customerName":  matchers.Like(pacttest.CustomerName),
				"customerEmail": matchers.Like(pacttest.CustomerEmail),
				"items": matchers.EachLike(matchers.Map{
					"productName": matchers.Like("Coral Fleece Hoodie"),
					"price":       matchers.Like("€280"),
					"size":        matchers.Like("M"),
					"quantity":    matchers.Like(1),
				}, 1),
				"total": matchers.Like(295),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":            matchers.Like("0b9f7c1e-3f55-4c5e-9a53-5d1d6b0d7a21"),
				"customerName":  matchers.Like(pacttest.CustomerName),
				"customerEmail": matchers.Like(pacttest.CustomerEmail),
				"total":         matchers.Like(295),
				"status":        matchers.Term("pending", "pending|confirmed|shipped|cancelled"),
				"items":         matchers.EachLike(matchers.Map{"productName": matchers.Like("Coral Fleece Hoodie")}, 1),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client, err := newClient(config)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		product, err := client.GetProductBySlug(ctx, pacttest.ExistingSlug)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if product.Slug != pacttest.ExistingSlug {
			return fmt.Errorf("expected slug %s, got %s", pacttest.ExistingSlug, product.Slug)
		}

		featured, err := client.GetFeaturedProducts(ctx)
		if err != nil {
			return fmt.Errorf("featured products: %w", err)
		}
		if len(featured) == 0 {
			return fmt.Errorf("expected at least one featured product")
		}

		if _, err := client.GetProductBySlug(ctx, pacttest.MissingSlug); !storefront.IsNotFound(err) {
			return fmt.Errorf("expected 404 for %s, got %v", pacttest.MissingSlug, err)
		}

		order, err := client.PlaceOrder(ctx, storefront.PlaceOrderRequest{
			CustomerName:  pacttest.CustomerName,
			CustomerEmail: pacttest.CustomerEmail,
			Items:         []storefront.OrderItem{{ProductName: "Coral Fleece Hoodie", Price: "€280", Size: "M", Quantity: 1}},
			Total:         decimal.NewFromInt(295),
		}, storefront.WithIdempotencyKey(pacttest.IdempotencyKey))
		if err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		if order.ID == "" || order.Status != "pending" {
			return fmt.Errorf("unexpected order %+v", order)
		}
		return nil
	})
	require.NoError(t, err)
}

func newClient(config pactconsumer.MockServerConfig) (*storefront.Client, error) {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return storefront.NewClient(
		fmt.Sprintf("http://%s:%d/api", host, config.Port),
		&http.Client{Transport: transport, Timeout: 10 * time.Second},
	)
}
