package products

import "time"

// Product is the registry entry for one sellable item. Stock is the
// single source of truth for quantity on hand; it is written at creation
// and afterwards only by the stock ledger's transaction.
type Product struct {
	ID                string    `json:"id"`
	Nom               string    `json:"Nom"`
	IdGroupe          string    `json:"IdGroupe"`
	IdCategorie       string    `json:"IdCategorie"`
	Prix              float64   `json:"Prix"`
	Poids             float64   `json:"Poids"`
	Stock             int64     `json:"Stock"`
	Description       string    `json:"Description"`
	Image             string    `json:"image"`
	CreatedAt         time.Time `json:"createdAt"`
	DerniereMiseAJour time.Time `json:"DerniereMiseAJour"`
}

// Update carries the editable fields. Stock is deliberately absent:
// quantity changes go through the ledger only.
type Update struct {
	Nom         string
	IdGroupe    string
	IdCategorie string
	Prix        float64
	Poids       float64
	Description string
}

// ListFilter narrows product listings.
type ListFilter struct {
	Search   string
	Category string
}
