package utils

import (
	"fmt"

	"github.com/ttacon/libphonenumber"
)

// NormalizePhoneNumber validates phoneNumber for countryCode and returns it in E.164 form,
// so "+91 98765 43210" and "09876543210" store the same value.
func NormalizePhoneNumber(phoneNumber, countryCode string) (string, error) {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return "", err
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", fmt.Errorf("phone number is not valid")
	}
	return libphonenumber.Format(p, libphonenumber.E164), nil
}

func DereferencePtr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
