package domain

import (
	"time"

	catalog "github.com/rayltitan1993/yournextstore-1/internal/catalog/domain"
)

type Cart struct {
	ID        string     `json:"id"`
	LineItems []LineItem `json:"lineItems"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// LineItem snapshots the variant and its parent product at the time of
// addition, so later catalog edits do not change what the cart holds.
type LineItem struct {
	Quantity int             `json:"quantity"`
	Variant  catalog.Variant `json:"productVariant"`
	Product  catalog.Product `json:"product"`
}

// Find returns the index of the line item for variantID, or -1.
func (c *Cart) Find(variantID string) int {
	for i, item := range c.LineItems {
		if item.Variant.ID == variantID {
			return i
		}
	}
	return -1
}
