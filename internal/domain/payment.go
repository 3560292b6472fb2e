package domain

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrCardNumberInvalid = errors.New("card number must have at least 16 digits")
	ErrCardNameRequired  = errors.New("cardholder name is required")
	ErrCardExpiryInvalid = errors.New("expiry must be in MM/YY format")
	ErrCardCVVInvalid    = errors.New("cvv must be exactly 3 digits")
)

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3}$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
)

// CardDetails is the raw card form input. It is validated and immediately
// exchanged for a PaymentReference; the PAN and CVV are never persisted.
type CardDetails struct {
	CardNumber     string `json:"card_number"`
	CardholderName string `json:"cardholder_name"`
	Expiry         string `json:"expiry"`
	CVV            string `json:"cvv"`
}

// Validate applies the card-form rules: at least 16 digits once spaces are
// stripped, a non-blank holder name, an MM/YY expiry and a 3-digit CVV.
func (c CardDetails) Validate() error {
	digits := strings.ReplaceAll(c.CardNumber, " ", "")
	if len(digits) < 16 || !digitsPattern.MatchString(digits) {
		return ErrCardNumberInvalid
	}
	if strings.TrimSpace(c.CardholderName) == "" {
		return ErrCardNameRequired
	}
	if !expiryPattern.MatchString(strings.TrimSpace(c.Expiry)) {
		return ErrCardExpiryInvalid
	}
	if !cvvPattern.MatchString(strings.TrimSpace(c.CVV)) {
		return ErrCardCVVInvalid
	}
	return nil
}

// MaskedNumber keeps the last four digits for display on the fast-checkout
// confirmation.
func (c CardDetails) MaskedNumber() string {
	digits := strings.ReplaceAll(c.CardNumber, " ", "")
	if len(digits) < 4 {
		return ""
	}
	return "**** **** **** " + digits[len(digits)-4:]
}

// PaymentReference is what gets persisted for returning shoppers: enough to
// offer one-click checkout without storing the PAN or CVV.
type PaymentReference struct {
	CardholderName string `json:"cardholder_name"`
	MaskedNumber   string `json:"masked_number"`
	Expiry         string `json:"expiry"`
	Token          string `json:"token"`
}

// Complete reports whether all four reference fields are non-blank after trimming.
func (p PaymentReference) Complete() bool {
	fields := []string{p.CardholderName, p.MaskedNumber, p.Expiry, p.Token}
	for _, field := range fields {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}
