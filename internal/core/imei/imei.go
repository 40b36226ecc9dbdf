// Package imei provides the IMEI value type.
// An IMEI is the 15-digit hardware identifier that uniquely names one
// physical device; it is the natural key of an inventory unit.
package imei

import (
	"strings"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
)

// Length is the required number of digits.
const Length = 15

// IMEI is a validated 15-digit identifier.
type IMEI string

// Normalize trims surrounding whitespace. It does not validate.
func Normalize(raw string) string {
	return strings.TrimSpace(raw)
}

// Parse validates raw input and returns a typed IMEI.
// The only accepted form is exactly 15 ASCII digits.
func Parse(raw string) (IMEI, error) {
	s := Normalize(raw)
	if !Valid(s) {
		return "", apperror.NewMalformedIMEI(raw)
	}
	return IMEI(s), nil
}

// MustParse parses raw input, panicking on error. Use only in tests.
func MustParse(raw string) IMEI {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Valid reports whether s is exactly 15 ASCII digits.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (i IMEI) String() string { return string(i) }

// ParseBatch validates a batch and reports the first malformed entry and any
// duplicate within the batch itself. Both conditions reject the whole batch.
func ParseBatch(raws []string) ([]IMEI, error) {
	out := make([]IMEI, 0, len(raws))
	seen := make(map[IMEI]struct{}, len(raws))
	for _, raw := range raws {
		v, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[v]; dup {
			return nil, apperror.NewValidation("duplicate IMEI within batch").
				WithDetail("imei", v.String())
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}
