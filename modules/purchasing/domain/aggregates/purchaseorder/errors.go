package purchaseorder

import "fmt"

// NotFoundError is returned when a PO, or an item on it, does not exist or
// belongs to another supplier.
type NotFoundError struct {
	POID   int64
	ItemID *int64
}

func (e *NotFoundError) Error() string {
	if e.ItemID != nil {
		return fmt.Sprintf("purchase order %d has no item %d", e.POID, *e.ItemID)
	}
	return fmt.Sprintf("purchase order %d not found", e.POID)
}

type InvalidTransitionError struct {
	POID      int64
	Current   Status
	Attempted Status
	Action    Action
}

func (e *InvalidTransitionError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("purchase order %d: status is %q, %q not reachable", e.POID, e.Current, e.Attempted)
	}
	return fmt.Sprintf("cannot %s purchase order %d: status is %q, %q not reachable", e.Action, e.POID, e.Current, e.Attempted)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
