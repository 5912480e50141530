package storefront

import "errors"

// Protocol failures surfaced when the storefront's login sequence comes back
// incomplete.
var (
	ErrNoSessionToken  = errors.New("storefront did not return a session token")
	ErrNoCookies       = errors.New("storefront did not return session cookies")
	ErrNoSessionCookie = errors.New("storefront cookies are missing the session cookie")
)

// sessionResponse is the bootstrap endpoint's reply.
type sessionResponse struct {
	SessionToken string `json:"session_token"`
}

// fingerprint is the device profile the bootstrap endpoint expects. Values
// mimic a desktop browser; the endpoint rejects empty profiles.
type fingerprint struct {
	Binary        string `json:"binary"`
	BinaryVersion string `json:"binary_version"`
	IsRetina      bool   `json:"is_retina"`
	OSVersion     string `json:"os_version"`
	PixelDensity  string `json:"pixel_density"`
	PushToken     string `json:"push_token"`
	ScreenHeight  int    `json:"screen_height"`
	ScreenWidth   int    `json:"screen_width"`
}

func defaultFingerprint() fingerprint {
	return fingerprint{
		Binary:        "web-ecom",
		BinaryVersion: "2.25.122",
		OSVersion:     "Win32",
		PixelDensity:  "2.0",
		ScreenHeight:  1080,
		ScreenWidth:   1920,
	}
}

// storeSelection binds the session to a physical store. The endpoint expects
// store_id as a JSON number, not a string.
type storeSelection struct {
	StoreID         int  `json:"store_id"`
	HasChangedStore bool `json:"has_changed_store"`
}

// searchResponse is the slice of the store_products reply the client uses.
type searchResponse struct {
	Items []storeItem `json:"items"`
}

type storeItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Aisle      string  `json:"aisle"`
	BasePrice  float64 `json:"base_price"`
	SizeString string  `json:"size_string"`
	Images     struct {
		Tile struct {
			Large  string `json:"large"`
			Medium string `json:"medium"`
			Small  string `json:"small"`
		} `json:"tile"`
	} `json:"images"`
}
