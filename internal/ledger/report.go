package ledger

import "math"

// Totals aggregates one set of movements.
type Totals struct {
	Entrees       int64   `json:"entrees"`
	Sorties       int64   `json:"sorties"`
	ValeurEntrees float64 `json:"valeurEntrees"`
	ValeurSorties float64 `json:"valeurSorties"`
}

// Summarize computes quantity and value totals per direction. Pure
// function of its input; non-finite values count as zero instead of
// poisoning the sums.
func Summarize(movements []Movement) Totals {
	var t Totals
	for _, m := range movements {
		qty := m.Quantite
		if qty < 0 {
			qty = 0
		}
		value := float64(qty) * finite(m.PrixUnitaire)
		switch m.TypeMouvement {
		case MovementIn:
			t.Entrees += qty
			t.ValeurEntrees += value
		case MovementOut:
			t.Sorties += qty
			t.ValeurSorties += value
		}
	}
	return t
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
