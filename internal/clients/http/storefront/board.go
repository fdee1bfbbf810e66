package storefront

import (
	"context"
	"sync"
)

// ProductBoard holds the admin product list, hidden products included.
// Every Reload is tagged with a generation; a response older than the newest
// one already applied is discarded, so a slow early fetch never overwrites a
// fresher list.
type ProductBoard struct {
	client *Client

	mu       sync.Mutex
	issued   uint64
	applied  uint64
	products []Product
}

func NewProductBoard(client *Client) *ProductBoard {
	return &ProductBoard{client: client}
}

// Products returns a copy of the current list.
func (b *ProductBoard) Products() []Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Product(nil), b.products...)
}

// Reload fetches the full list. It reports whether the result was applied.
func (b *ProductBoard) Reload(ctx context.Context) (bool, error) {
	b.mu.Lock()
	b.issued++
	generation := b.issued
	b.mu.Unlock()

	products, err := b.client.ListProducts(ctx, ListProductsParams{IncludeHidden: true})
	if err != nil {
		return false, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if generation < b.applied {
		return false, nil
	}
	b.applied = generation
	b.products = products
	return true, nil
}

// BulkAction runs the action, then reloads once it has completed.
func (b *ProductBoard) BulkAction(ctx context.Context, ids []string, action BulkAction) (*BulkActionResult, error) {
	result, err := b.client.BulkAction(ctx, ids, action)
	if err != nil {
		return nil, err
	}
	if _, err := b.Reload(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// SetVisibility toggles a product and reloads.
func (b *ProductBoard) SetVisibility(ctx context.Context, id string, hidden bool) error {
	if _, err := b.client.SetVisibility(ctx, id, hidden); err != nil {
		return err
	}
	_, err := b.Reload(ctx)
	return err
}

// SetFeatured toggles the featured flag and reloads.
func (b *ProductBoard) SetFeatured(ctx context.Context, id string, featured bool) error {
	if _, err := b.client.SetFeatured(ctx, id, featured); err != nil {
		return err
	}
	_, err := b.Reload(ctx)
	return err
}

// Delete removes a product and reloads.
func (b *ProductBoard) Delete(ctx context.Context, id string) error {
	if _, err := b.client.DeleteProduct(ctx, id); err != nil {
		return err
	}
	_, err := b.Reload(ctx)
	return err
}
