package categories

import (
	"fmt"

	"github.com/tsena-shop/tsena/internal/shared"
)

// ErrHasProducts rejects deletion while the denormalized counter is positive.
var ErrHasProducts = fmt.Errorf("categories: %w", shared.ErrHasDependents)

// ErrUnknownGroup rejects creation under a group that does not exist.
var ErrUnknownGroup = fmt.Errorf("categories: owning group %w", shared.ErrNotFound)

// Category is a sub-grouping of products inside one Group. Count mirrors
// NombreProduit on groups: best-effort, healed by the reconciliation job.
type Category struct {
	ID       string `json:"id"`
	Nom      string `json:"Nom"`
	IdGroupe string `json:"IdGroupe"`
	Count    int64  `json:"count"`
}
