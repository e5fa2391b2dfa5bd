package purchaseorder

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// UpdateStatusParams: nil fields keep their stored value.
type UpdateStatusParams struct {
	Status           Status
	ExpectedDelivery *time.Time
	SupplierNote     *string
	// From, when set, makes the write conditional on the current status.
	From *Status
}

type ProposeOrderParams struct {
	SupProposedDeliver *time.Time
	SupplierNote       *string
	From               *Status
}

type ProposeItemParams struct {
	Quantity       *int
	Price          *decimal.Decimal
	ExpirationDate *time.Time
}

func (p ProposeItemParams) Empty() bool {
	return p.Quantity == nil && p.Price == nil && p.ExpirationDate == nil
}

// Proposed quantities are stored as INTEGER and prices as NUMERIC(14, 4).
const (
	MaxQuantity = math.MaxInt32
	PriceScale  = 4
)

// MaxPrice is the exclusive upper bound of a storable price.
var MaxPrice = decimal.New(1, 14-PriceScale)

func CheckQuantity(q int) error {
	if q < 0 {
		return &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if q > MaxQuantity {
		return &ValidationError{Field: "quantity", Reason: "exceeds maximum"}
	}
	return nil
}

func CheckPrice(d decimal.Decimal) error {
	if d.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if d.GreaterThanOrEqual(MaxPrice) {
		return &ValidationError{Field: "price", Reason: "exceeds maximum"}
	}
	if !d.Equal(d.Truncate(PriceScale)) {
		return &ValidationError{Field: "price", Reason: "more than 4 decimal places"}
	}
	return nil
}

// Validate reports the first value the store could not hold unchanged.
func (p ProposeItemParams) Validate() error {
	if p.Quantity != nil {
		if err := CheckQuantity(*p.Quantity); err != nil {
			return err
		}
	}
	if p.Price != nil {
		if err := CheckPrice(*p.Price); err != nil {
			return err
		}
	}
	return nil
}

type Repository interface {
	ListActive(ctx context.Context, supplierID int64) ([]*PurchaseOrder, error)
	ListArchived(ctx context.Context, supplierID int64) ([]*PurchaseOrder, error)
	ListItems(ctx context.Context, poid int64) ([]*Item, error)
	GetByID(ctx context.Context, poid int64) (*PurchaseOrder, error)
	// GetByIDForUpdate locks the row until the enclosing transaction ends.
	GetByIDForUpdate(ctx context.Context, poid int64) (*PurchaseOrder, error)
	UpdateStatus(ctx context.Context, poid int64, params UpdateStatusParams) error
	ProposeOrder(ctx context.Context, poid int64, params ProposeOrderParams) error
	ProposeItem(ctx context.Context, poid, itemID int64, params ProposeItemParams) error
}
