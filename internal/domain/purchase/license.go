package purchase

import (
	"errors"
	"strings"
)

var ErrInvalidLicenseType = errors.New("invalid license type")

type LicenseType string

const (
	LicenseMP3       LicenseType = "mp3"
	LicenseWAV       LicenseType = "wav"
	LicenseTrackout  LicenseType = "trackout"
	LicenseUnlimited LicenseType = "unlimited"
	LicenseExclusive LicenseType = "exclusive"
)

func ParseLicenseType(s string) (LicenseType, error) {
	lt := LicenseType(strings.TrimSpace(s))
	if !lt.IsValid() {
		return "", ErrInvalidLicenseType
	}
	return lt, nil
}

func (l LicenseType) String() string {
	return string(l)
}

func (l LicenseType) IsValid() bool {
	switch l {
	case LicenseMP3, LicenseWAV, LicenseTrackout, LicenseUnlimited, LicenseExclusive:
		return true
	default:
		return false
	}
}

// IsExclusive reports whether the tier transfers single-owner rights and
// therefore takes the item off the catalog once fulfilled.
func (l LicenseType) IsExclusive() bool {
	return l == LicenseExclusive
}
