package domain

import "strings"

// ShippingDetails is captured by the shipping form and persisted verbatim.
// Unit and DeliveryNotes are optional.
type ShippingDetails struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Unit          string `json:"unit,omitempty"`
	Region        string `json:"region"`
	Locality      string `json:"locality"`
	DeliveryNotes string `json:"delivery_notes,omitempty"`
}

// Complete reports whether every mandatory field is non-blank after trimming.
// Optional fields do not gate completeness.
func (s ShippingDetails) Complete() bool {
	mandatory := []string{
		s.FirstName,
		s.LastName,
		s.Email,
		s.Phone,
		s.Address,
		s.Region,
		s.Locality,
	}
	for _, field := range mandatory {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}
