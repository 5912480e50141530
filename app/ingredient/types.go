package ingredient

// AlternativeQuantity is an equivalent measurement for the same ingredient,
// e.g. a gram rendering of a cup amount.
type AlternativeQuantity struct {
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitText    string  `json:"unitText"`
	MinQuantity float64 `json:"minQuantity"`
	MaxQuantity float64 `json:"maxQuantity"`
}

// Parsed is a single structured ingredient line. Quantity 0 with an empty
// unit means the line carried no usable amount. QuantityText and UnitText
// preserve the input exactly as written ("¼", "Tbsp"), while Quantity and
// Unit hold the normalized values.
type Parsed struct {
	Quantity              float64               `json:"quantity"`
	QuantityText          string                `json:"quantityText"`
	MinQuantity           float64               `json:"minQuantity"`
	MaxQuantity           float64               `json:"maxQuantity"`
	Unit                  string                `json:"unit"`
	UnitText              string                `json:"unitText"`
	Ingredient            string                `json:"ingredient"`
	Extra                 string                `json:"extra"`
	AlternativeQuantities []AlternativeQuantity `json:"alternativeQuantities"`
}
