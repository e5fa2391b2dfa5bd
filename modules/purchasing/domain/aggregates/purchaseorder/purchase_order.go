package purchaseorder

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseOrder struct {
	ID                 int64
	SupplierID         int64
	OrderDate          time.Time
	ExpectedDelivery   *time.Time
	Status             Status
	SupProposedDeliver *time.Time
	OriginalPOID       *int64
	SupplierNote       *string
	RespondedAt        *time.Time
}

func (p *PurchaseOrder) Archived() bool {
	return p.Status.Archived()
}

func (p *PurchaseOrder) BelongsTo(supplierID int64) bool {
	return p.SupplierID == supplierID
}

type Item struct {
	POID                int64
	ItemID              int64
	ItemName            string
	Picture             []byte
	OrderedQuantity     int
	EstimatedPrice      *decimal.Decimal
	SupProposedQuantity *int
	SupProposedPrice    *decimal.Decimal
	SupExpirationDate   *time.Time
}

// Proposed reports whether the supplier has countered any term of the line.
func (i *Item) Proposed() bool {
	return i.SupProposedQuantity != nil || i.SupProposedPrice != nil || i.SupExpirationDate != nil
}
