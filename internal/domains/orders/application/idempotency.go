package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	orderstypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
)

type normalizedPlaceOrderInput struct {
	CustomerName  string               `json:"customerName"`
	CustomerEmail string               `json:"customerEmail"`
	Items         []normalizedLineItem `json:"items"`
	Total         string               `json:"total"`
}

type normalizedLineItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Price       string `json:"price"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
}

// FingerprintPlaceOrder builds a deterministic hash of the checkout payload, excluding the
// idempotency key and any pre-assigned order id.
func FingerprintPlaceOrder(input orderstypes.PlaceOrderInput) (string, error) {
	normalized := normalizedPlaceOrderInput{
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		Items:         make([]normalizedLineItem, 0, len(input.Items)),
		Total:         input.Total.String(),
	}
	for _, item := range input.Items {
		line := normalizedLineItem{
			ProductName: strings.TrimSpace(item.ProductName),
			Price:       strings.TrimSpace(item.Price),
			Size:        strings.TrimSpace(item.Size),
			Quantity:    item.Quantity,
		}
		if item.ProductID != nil {
			line.ProductID = *item.ProductID
		}
		normalized.Items = append(normalized.Items, line)
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
