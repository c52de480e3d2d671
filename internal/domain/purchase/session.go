package purchase

import (
	"errors"

	"github.com/google/uuid"
)

// Metadata keys written on the provider session at checkout and read back at fulfillment.
const (
	MetadataKeyBuyerID     = "userId"
	MetadataKeyItemID      = "beatId"
	MetadataKeyLicenseType = "leaseType"
)

var (
	ErrMetadataMissing = errors.New("purchase metadata missing")
	ErrMetadataInvalid = errors.New("purchase metadata invalid")
)

type PaymentStatus string

const (
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusUnpaid            PaymentStatus = "unpaid"
	PaymentStatusNoPaymentRequired PaymentStatus = "no_payment_required"
)

func (s PaymentStatus) IsPaid() bool {
	return s == PaymentStatusPaid
}

// PaymentSession mirrors the provider's record. It is only ever read back by
// handle; the provider stays the source of truth for payment state.
type PaymentSession struct {
	ID       string
	Status   PaymentStatus
	Metadata map[string]string
}

type SessionMetadata struct {
	BuyerID     uuid.UUID
	ItemID      ItemID
	LicenseType LicenseType
}

func (m SessionMetadata) ToMap() map[string]string {
	return map[string]string{
		MetadataKeyBuyerID:     m.BuyerID.String(),
		MetadataKeyItemID:      m.ItemID.String(),
		MetadataKeyLicenseType: m.LicenseType.String(),
	}
}

func MetadataFromMap(m map[string]string) (SessionMetadata, error) {
	rawBuyer := m[MetadataKeyBuyerID]
	rawItem := m[MetadataKeyItemID]
	rawLicense := m[MetadataKeyLicenseType]
	if rawBuyer == "" || rawItem == "" || rawLicense == "" {
		return SessionMetadata{}, ErrMetadataMissing
	}

	buyerID, err := uuid.Parse(rawBuyer)
	if err != nil {
		return SessionMetadata{}, ErrMetadataInvalid
	}
	itemID, err := NewItemID(rawItem)
	if err != nil {
		return SessionMetadata{}, ErrMetadataInvalid
	}
	licenseType, err := ParseLicenseType(rawLicense)
	if err != nil {
		return SessionMetadata{}, ErrMetadataInvalid
	}

	return SessionMetadata{
		BuyerID:     buyerID,
		ItemID:      itemID,
		LicenseType: licenseType,
	}, nil
}
