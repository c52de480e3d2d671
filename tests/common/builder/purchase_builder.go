//go:build unit || e2e

package builder

import (
	"beat-fulfillment/internal/domain/purchase"
	reqdto "beat-fulfillment/internal/handler/dto/request"

	"github.com/google/uuid"
)

type PurchaseBuilder struct {
	ItemID      string
	LicenseType string
	PriceCents  int64
	SongName    string
	BuyerID     uuid.UUID
}

func NewPurchaseBuilder() *PurchaseBuilder {
	return &PurchaseBuilder{
		ItemID:      "trap-lead-01",
		LicenseType: "mp3",
		PriceCents:  2999,
		SongName:    "Midnight",
		BuyerID:     uuid.New(),
	}
}

func (p *PurchaseBuilder) With(mutate func(*PurchaseBuilder)) *PurchaseBuilder {
	mutate(p)
	return p
}

func (p *PurchaseBuilder) WithItemID(id string) *PurchaseBuilder {
	p.ItemID = id
	return p
}

func (p *PurchaseBuilder) WithLicense(license string) *PurchaseBuilder {
	p.LicenseType = license
	return p
}

func (p *PurchaseBuilder) WithPrice(cents int64) *PurchaseBuilder {
	p.PriceCents = cents
	return p
}

func (p *PurchaseBuilder) WithSongName(name string) *PurchaseBuilder {
	p.SongName = name
	return p
}

func (p *PurchaseBuilder) WithBuyer(id uuid.UUID) *PurchaseBuilder {
	p.BuyerID = id
	return p
}

func (p *PurchaseBuilder) AsExclusive() *PurchaseBuilder {
	p.LicenseType = "exclusive"
	p.PriceCents = 49999
	return p
}

// Build methods
func (p *PurchaseBuilder) BuildDomain() (*purchase.PurchaseIntent, error) {
	itemID, err := purchase.NewItemID(p.ItemID)
	if err != nil {
		return nil, err
	}
	license, err := purchase.ParseLicenseType(p.LicenseType)
	if err != nil {
		return nil, err
	}
	return purchase.NewPurchaseIntent(itemID, license, p.PriceCents, p.SongName, p.BuyerID)
}

func (p *PurchaseBuilder) BuildDTO() reqdto.CreateCheckoutSessionRequest {
	return reqdto.CreateCheckoutSessionRequest{
		ItemID:       p.ItemID,
		LicenseType:  p.LicenseType,
		PriceInCents: p.PriceCents,
		SongName:     p.SongName,
	}
}

func (p *PurchaseBuilder) BuildListing() *purchase.Listing {
	return &purchase.Listing{
		ItemID: purchase.ItemID(p.ItemID),
		Title:  p.SongName,
		Prices: map[purchase.LicenseType]int64{
			purchase.LicenseMP3:       2999,
			purchase.LicenseWAV:       4999,
			purchase.LicenseExclusive: 49999,
		},
	}
}

func (p *PurchaseBuilder) BuildMetadata() map[string]string {
	return map[string]string{
		purchase.MetadataKeyBuyerID:     p.BuyerID.String(),
		purchase.MetadataKeyItemID:      p.ItemID,
		purchase.MetadataKeyLicenseType: p.LicenseType,
	}
}

func (p *PurchaseBuilder) BuildSession(id string, status purchase.PaymentStatus) *purchase.PaymentSession {
	return &purchase.PaymentSession{
		ID:       id,
		Status:   status,
		Metadata: p.BuildMetadata(),
	}
}

func (p *PurchaseBuilder) BuildPaidSession(id string) *purchase.PaymentSession {
	return p.BuildSession(id, purchase.PaymentStatusPaid)
}

func (p *PurchaseBuilder) DeliverablePath() string {
	return purchase.DeliverablePath(purchase.ItemID(p.ItemID), purchase.LicenseType(p.LicenseType))
}
