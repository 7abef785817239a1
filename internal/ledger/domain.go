package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/tsena-shop/tsena/internal/shared"
)

// MovementType enumerates the two directions of a stock movement.
type MovementType string

const (
	// MovementIn increases the product stock.
	MovementIn MovementType = "Entrée"
	// MovementOut decreases the product stock.
	MovementOut MovementType = "Sortie"
)

// Valid reports whether the type is one of the two known directions.
func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// Movement is one ledger entry. Entries are append-only: once written
// they are never updated or deleted, which is why the product name and
// both catalog ids are snapshotted onto the record at write time.
type Movement struct {
	ID            string       `json:"id"`
	Reference     string       `json:"reference"`
	Produit       string       `json:"Produit"`
	ProductID     string       `json:"ProductId"`
	IdGroupe      string       `json:"IdGroupe"`
	IdCategorie   string       `json:"IdCategorie"`
	Quantite      int64        `json:"Quantite"`
	PrixUnitaire  float64      `json:"PrixUnitaire"`
	ValeurTotale  float64      `json:"ValeurTotale"`
	Motif         string       `json:"Motif"`
	TypeMouvement MovementType `json:"TypeMouvement"`
	DateAjout     time.Time    `json:"DateAjout"`
	StockAvant    int64        `json:"StockAvant"`
	StockApres    int64        `json:"StockApres"`
}

// ProductState is the slice of a product the ledger reads and writes
// inside its transaction.
type ProductState struct {
	ID          string
	Nom         string
	IdGroupe    string
	IdCategorie string
	Stock       int64
}

// RecordInput describes one movement to record.
type RecordInput struct {
	ProductID    string
	Type         MovementType
	Quantite     int64
	PrixUnitaire float64
	Motif        string
	ActorID      string
}

// Receipt is returned on a successful record.
type Receipt struct {
	MovementID string `json:"movementId"`
	NewStock   int64  `json:"newStock"`
}

// ListFilter narrows the movement history.
type ListFilter struct {
	Search   string
	Group    string
	Category string
	Start    time.Time
	End      time.Time
}

// ErrProductNotFound indicates the moved product no longer exists.
var ErrProductNotFound = fmt.Errorf("ledger: product %w", shared.ErrNotFound)

// ErrDuplicateMovement indicates the idempotency reference was already used.
var ErrDuplicateMovement = errors.New("ledger: movement already recorded")

// ErrTransactionConflict indicates concurrent writers kept colliding after
// the bounded retries were exhausted.
var ErrTransactionConflict = errors.New("ledger: transaction conflict, retry later")

// ErrInvalidQuantity indicates a non-positive quantity.
var ErrInvalidQuantity = errors.New("ledger: quantity must be a positive integer")

// ErrInvalidType indicates an unknown movement type.
var ErrInvalidType = errors.New("ledger: movement type must be Entrée or Sortie")

// ErrMissingReason indicates an empty motif.
var ErrMissingReason = errors.New("ledger: reason is required")

// InsufficientStockError carries the quantities the user needs to see.
type InsufficientStockError struct {
	Courant int64
	Demande int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("ledger: insufficient stock: %d on hand, %d requested", e.Courant, e.Demande)
}
