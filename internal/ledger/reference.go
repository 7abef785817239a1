package ledger

import (
	"fmt"
	"time"
)

// referenceStamp is minute precision on purpose: a client retrying the
// same submission lands on the same reference and is rejected as a
// duplicate. Two distinct movements of the same quantity on the same
// product within one minute collide too; callers are expected to wait
// out the minute or change the quantity.
const referenceStamp = "200601021504"

// BuildReference derives the idempotency key for a movement.
func BuildReference(productID string, quantite int64, at time.Time) string {
	return fmt.Sprintf("%s-%d-%s", productID, quantite, at.UTC().Truncate(time.Minute).Format(referenceStamp))
}
