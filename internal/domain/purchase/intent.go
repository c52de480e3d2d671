package purchase

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PurchaseIntent is never stored on our side; the payment session metadata is its durable record.
type PurchaseIntent struct {
	itemID          ItemID
	licenseType     LicenseType
	priceMinorUnits int64
	displayName     string
	buyerID         uuid.UUID
}

func NewPurchaseIntent(
	itemID ItemID,
	licenseType LicenseType,
	priceMinorUnits int64,
	displayName string,
	buyerID uuid.UUID,
) (*PurchaseIntent, error) {
	if _, err := NewItemID(itemID.String()); err != nil {
		return nil, err
	}
	if !licenseType.IsValid() {
		return nil, ErrInvalidLicenseType
	}
	if priceMinorUnits <= 0 {
		return nil, ErrInvalidPrice
	}
	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, ErrInvalidDisplayName
	}

	return &PurchaseIntent{
		itemID:          itemID,
		licenseType:     licenseType,
		priceMinorUnits: priceMinorUnits,
		displayName:     name,
		buyerID:         buyerID,
	}, nil
}

func (p *PurchaseIntent) ItemID() ItemID {
	return p.itemID
}

func (p *PurchaseIntent) LicenseType() LicenseType {
	return p.licenseType
}

func (p *PurchaseIntent) PriceMinorUnits() int64 {
	return p.priceMinorUnits
}

func (p *PurchaseIntent) DisplayName() string {
	return p.displayName
}

func (p *PurchaseIntent) BuyerID() uuid.UUID {
	return p.buyerID
}

func (p *PurchaseIntent) ProductName() string {
	return fmt.Sprintf("%s (%s Lease)", p.displayName, p.licenseType)
}

func (p *PurchaseIntent) ProductDescription() string {
	return fmt.Sprintf("Beat ID: %s", p.itemID)
}

func (p *PurchaseIntent) Metadata() SessionMetadata {
	return SessionMetadata{
		BuyerID:     p.buyerID,
		ItemID:      p.itemID,
		LicenseType: p.licenseType,
	}
}
