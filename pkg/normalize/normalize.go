// Package normalize holds the digit-only normalizers and Brazilian document
// checks shared by registration and address lookup.
package normalize

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const (
	CEPLength = 8
	CPFLength = 11

	phoneRegion = "BR"
)

// Digits strips every non-ASCII-digit rune. Applying it twice is a no-op.
func Digits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CEP returns the cleaned postal code and whether it has exactly eight digits.
func CEP(value string) (string, bool) {
	cleaned := Digits(value)
	return cleaned, len(cleaned) == CEPLength
}

// ValidCPF checks length, repeated digits and both check digits.
func ValidCPF(value string) bool {
	cpf := Digits(value)
	if len(cpf) != CPFLength {
		return false
	}
	if strings.Count(cpf, cpf[:1]) == CPFLength {
		return false
	}
	return cpfCheckDigit(cpf[:9], 10) == cpf[9] && cpfCheckDigit(cpf[:10], 11) == cpf[10]
}

func cpfCheckDigit(digits string, weight int) byte {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (weight - i)
	}
	rem := (sum * 10) % 11
	if rem == 10 {
		rem = 0
	}
	return byte('0' + rem)
}

// ValidPhone reports whether the number parses as a valid Brazilian phone.
func ValidPhone(value string) bool {
	digits := Digits(value)
	if len(digits) < 10 || len(digits) > 11 {
		return false
	}
	parsed, err := phonenumbers.Parse(digits, phoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumberForRegion(parsed, phoneRegion)
}
