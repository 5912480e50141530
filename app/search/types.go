package search

// indexRequest is one query of a multi-query request against the hosted
// product index.
type indexRequest struct {
	IndexName             string   `json:"indexName"`
	Query                 string   `json:"query"`
	Filters               string   `json:"filters"`
	Page                  int      `json:"page"`
	HitsPerPage           int      `json:"hitsPerPage,omitempty"`
	Analytics             bool     `json:"analytics"`
	AnalyticsTags         []string `json:"analyticsTags,omitempty"`
	ClickAnalytics        bool     `json:"clickAnalytics,omitempty"`
	AttributesToHighlight []string `json:"attributesToHighlight"`
	Facets                []string `json:"facets"`
	RuleContexts          []string `json:"ruleContexts,omitempty"`
	ResponseFields        []string `json:"responseFields"`
	UserToken             string   `json:"userToken"`
}

type queriesRequest struct {
	Requests []indexRequest `json:"requests"`
}

type queriesResponse struct {
	Results []struct {
		Hits   []productHit `json:"hits"`
		NbHits int          `json:"nbHits"`
	} `json:"results"`
}

type hitPrice struct {
	Amount float64 `json:"amount"`
}

type hitPlanogram struct {
	Aisle     string `json:"aisle"`
	Shelf     string `json:"shelf"`
	AisleSide string `json:"aisleSide"`
	Section   string `json:"section"`
}

// productHit is the slice of an index record the client maps into a Product.
type productHit struct {
	ObjectID      string        `json:"objectID"`
	Slug          string        `json:"slug"`
	ProductName   string        `json:"productName"`
	PackSize      string        `json:"packSize"`
	Images        []string      `json:"images"`
	PriceInStore  *hitPrice     `json:"price_inStore"`
	PriceDelivery *hitPrice     `json:"price_delivery"`
	Planogram     *hitPlanogram `json:"planogram"`
}
