package groups

import (
	"fmt"

	"github.com/tsena-shop/tsena/internal/shared"
)

// ErrHasProducts rejects deletion while the denormalized counter is positive.
var ErrHasProducts = fmt.Errorf("groups: %w", shared.ErrHasDependents)

// Group is a top-level catalog grouping (brand). NombreProduit is a
// denormalized product counter maintained best-effort by the product
// registry and healed by the reconciliation job.
type Group struct {
	ID            string `json:"id"`
	Nom           string `json:"Nom"`
	NombreProduit int64  `json:"NombreProduit"`
}
