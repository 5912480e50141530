package recipe

// Document is a normalized recipe. Array-typed fields are always arrays,
// regardless of how the source page shaped them.
type Document struct {
	Name         string   `json:"name"`
	Image        []string `json:"image"`
	Description  string   `json:"description"`
	CookTime     string   `json:"cookTime"`
	PrepTime     string   `json:"prepTime"`
	TotalTime    string   `json:"totalTime"`
	Category     []string `json:"category"`
	Cuisine      []string `json:"cuisine"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Yield        string   `json:"yield"`
}

// Result is the extraction outcome. On success Recipe is populated; otherwise
// Message says what went wrong and RawText carries the page's readable text
// so the caller can correct the ingredients by hand.
type Result struct {
	Success bool      `json:"success"`
	Recipe  *Document `json:"recipe,omitempty"`
	Message string    `json:"message,omitempty"`
	RawText string    `json:"rawText,omitempty"`
}
