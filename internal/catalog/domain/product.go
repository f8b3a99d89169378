package domain

type Product struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Summary     string    `json:"summary,omitempty"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images"`
	Active      bool      `json:"active"`
	Variants    []Variant `json:"variants"`
}

type Variant struct {
	ID string `json:"id"`
	// PriceCents is the unit price in minor currency units.
	PriceCents   int64                `json:"price"`
	Images       []string             `json:"images"`
	Combinations []VariantCombination `json:"combinations"`
}

type VariantCombination struct {
	Value VariantValue `json:"variantValue"`
}

type VariantValue struct {
	ID         string `json:"id"`
	Value      string `json:"value"`
	ColorValue string `json:"colorValue,omitempty"`
	TypeLabel  string `json:"label"`
}

// Variant returns the variant with the given ID, if this product has it.
func (p Product) Variant(variantID string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == variantID {
			return v, true
		}
	}
	return Variant{}, false
}
