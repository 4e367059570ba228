package entity

import "time"

// BusinessPartner tercero (cliente o proveedor) con su cuenta asociada.
// AccountID y Account.PartnerID deben referirse mutuamente.
type BusinessPartner struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	AccountID string
	CreatedAt time.Time
	UpdatedAt time.Time
}
