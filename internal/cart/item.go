package cart

// Sizes lists the sizes offered by the storefront. The store does not validate against it.
var Sizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

// Key identifies a cart line. Two lines are the same iff every field matches.
type Key struct {
	VariantSlug string
	Size        string
}

// ProductSnapshot is the product data captured when a line is added. It is not
// refreshed from the catalog afterwards.
type ProductSnapshot struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Discount int    `json:"discount,omitempty"`
	Image    string `json:"image,omitempty"`
	Category string `json:"category,omitempty"`
}

// Item is one cart line.
type Item struct {
	Product  ProductSnapshot `json:"product"`
	Slug     string          `json:"slug"`
	Size     string          `json:"size"`
	Quantity int             `json:"quantity"`
}

// Key returns the line identity.
func (i Item) Key() Key {
	return Key{VariantSlug: i.Slug, Size: i.Size}
}
