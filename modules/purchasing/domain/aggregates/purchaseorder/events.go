package purchaseorder

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// StatusChangedEvent is published after a supplier action commits.
type StatusChangedEvent struct {
	EventID    string
	POID       int64
	SupplierID int64
	Action     Action
	From       Status
	To         Status
	Note       *string
	OccurredAt time.Time
}

func NewStatusChangedEvent(po *PurchaseOrder, action Action, from Status, occurredAt time.Time) *StatusChangedEvent {
	return &StatusChangedEvent{
		EventID:    ulid.MustNew(ulid.Timestamp(occurredAt), rand.Reader).String(),
		POID:       po.ID,
		SupplierID: po.SupplierID,
		Action:     action,
		From:       from,
		To:         po.Status,
		Note:       po.SupplierNote,
		OccurredAt: occurredAt,
	}
}
