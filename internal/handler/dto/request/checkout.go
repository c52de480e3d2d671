package request

import "strings"

// CreateCheckoutSessionRequest mirrors what the storefront sends. Price and
// song name are informational only: the catalog listing decides what is charged.
type CreateCheckoutSessionRequest struct {
	ItemID       string `json:"itemId" binding:"required,max=128"`
	LicenseType  string `json:"licenseType" binding:"required,max=32"`
	PriceInCents int64  `json:"priceInCents" binding:"omitempty,min=0"`
	SongName     string `json:"songName" binding:"omitempty,max=200"`
}

func (r CreateCheckoutSessionRequest) TrimmedSongName() string {
	return strings.TrimSpace(r.SongName)
}
