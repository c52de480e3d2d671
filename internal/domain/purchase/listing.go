package purchase

import "errors"

var (
	ErrPriceNotListed = errors.New("license tier not offered for item")
	ErrAlreadySold    = errors.New("exclusive rights already sold")
)

// Listing is the catalog's trusted view of an item at checkout time.
type Listing struct {
	ItemID ItemID
	Title  string
	Prices map[LicenseType]int64
	Sold   bool
}

// Quote resolves what a buyer pays for the tier. Once exclusive rights are
// sold the item is off the market for every tier.
func (l *Listing) Quote(license LicenseType) (int64, error) {
	if l.Sold {
		return 0, ErrAlreadySold
	}
	price, ok := l.Prices[license]
	if !ok || price <= 0 {
		return 0, ErrPriceNotListed
	}
	return price, nil
}
