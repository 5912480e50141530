// Package grocery holds the shared product and shopping-list types produced
// by the storefront and search clients.
package grocery

// Planogram is a product's physical position inside the store. Fields default
// to "Unknown" when the catalog does not carry shelf data.
type Planogram struct {
	Aisle     string `json:"aisle"`
	Section   string `json:"section"`
	Shelf     string `json:"shelf"`
	AisleSide string `json:"aisleSide"`
}

// UnknownPlanogram is the placeholder location for products without shelf
// data.
func UnknownPlanogram() Planogram {
	return Planogram{
		Aisle:     "Unknown",
		Section:   "Unknown",
		Shelf:     "Unknown",
		AisleSide: "Unknown",
	}
}

// Product is a purchasable catalog item. ObjectID is the search index's
// durable per-record key; Slug is the human-readable, less reliable URL
// fragment for the same product. Price is in currency units, 0 when unknown.
type Product struct {
	ObjectID  string    `json:"objectID"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Size      string    `json:"size"`
	Href      string    `json:"href"`
	Store     string    `json:"store"`
	Images    []string  `json:"images"`
	Planogram Planogram `json:"planogram"`
}

// ListItem is one entry of a shareable shopping list: the matched product's
// identifiers plus the parsed ingredient it satisfies.
type ListItem struct {
	Slug       string `json:"slug"`
	ObjectID   string `json:"objectID,omitempty"`
	Ingredient string `json:"ingredient"`
	Amount     string `json:"amount,omitempty"`
}
