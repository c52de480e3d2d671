package purchase

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	maxItemIDLength = 128

	// GrantTTL is how long a download link stays valid once issued.
	GrantTTL = 10 * time.Minute
)

var (
	ErrInvalidItemID      = errors.New("invalid item id")
	ErrInvalidPrice       = errors.New("price must be positive")
	ErrInvalidDisplayName = errors.New("display name is required")
)

type ItemID string

// NewItemID accepts slugs only, so the id can be embedded into a storage path
// without escaping deliverables/{itemId}/.
func NewItemID(s string) (ItemID, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "." || trimmed == ".." || len(trimmed) > maxItemIDLength {
		return "", ErrInvalidItemID
	}
	for _, r := range trimmed {
		if !isSlugRune(r) {
			return "", ErrInvalidItemID
		}
	}
	return ItemID(trimmed), nil
}

func (id ItemID) String() string {
	return string(id)
}

func isSlugRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-', r == '_', r == '.':
		return true
	default:
		return false
	}
}

// DeliverablePath is the single storage object a purchase of (item, license) unlocks.
func DeliverablePath(itemID ItemID, license LicenseType) string {
	return fmt.Sprintf("deliverables/%s/%s.zip", itemID, license)
}

type AccessGrant struct {
	URL       string
	ExpiresAt time.Time
}

func NewAccessGrant(url string, issuedAt time.Time) AccessGrant {
	return AccessGrant{
		URL:       url,
		ExpiresAt: issuedAt.Add(GrantTTL),
	}
}
