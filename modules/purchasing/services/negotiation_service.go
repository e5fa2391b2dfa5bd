package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
	"github.com/amas-erp/supplier-portal/pkg/composables"
	"github.com/amas-erp/supplier-portal/pkg/eventbus"
)

// TxRunner runs fn as one unit of work.
type TxRunner func(ctx context.Context, fn func(context.Context) error) error

type AcceptInput struct {
	// ExpectedDelivery is the supplier-confirmed final delivery date and time.
	ExpectedDelivery time.Time
	// ItemExpirations optionally confirms an expiration date per item id.
	ItemExpirations map[int64]time.Time
}

type ItemProposal struct {
	ItemID         int64
	Quantity       *int
	Price          *decimal.Decimal
	ExpirationDate *time.Time
}

type ProposeInput struct {
	Items            []ItemProposal
	ProposedDelivery *time.Time
	Note             *string
}

type NegotiationOption func(*NegotiationService)

func WithTxRunner(run TxRunner) NegotiationOption {
	return func(s *NegotiationService) { s.inTx = run }
}

func WithClock(now func() time.Time) NegotiationOption {
	return func(s *NegotiationService) { s.now = now }
}

// NegotiationService applies supplier actions to purchase orders.
type NegotiationService struct {
	repo      purchaseorder.Repository
	publisher eventbus.EventBus
	inTx      TxRunner
	now       func() time.Time
}

func NewNegotiationService(repo purchaseorder.Repository, publisher eventbus.EventBus, opts ...NegotiationOption) *NegotiationService {
	s := &NegotiationService{
		repo:      repo,
		publisher: publisher,
		inTx:      composables.InTx,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *NegotiationService) Accept(ctx context.Context, supplierID, poid int64, in AcceptInput) (*purchaseorder.PurchaseOrder, error) {
	if in.ExpectedDelivery.IsZero() {
		return nil, s.reject(purchaseorder.ActionAccept, &purchaseorder.ValidationError{Field: "expected_delivery", Reason: "required"})
	}
	for itemID, exp := range in.ItemExpirations {
		if exp.IsZero() {
			return nil, s.reject(purchaseorder.ActionAccept, &purchaseorder.ValidationError{
				Field:  "item_expirations",
				Reason: "empty expiration date for item " + formatID(itemID),
			})
		}
	}

	var (
		from    purchaseorder.Status
		updated *purchaseorder.PurchaseOrder
	)
	err := composables.Retry(ctx, "negotiation.accept", func(ctx context.Context) error {
		return s.inTx(ctx, func(txCtx context.Context) error {
			po, err := s.lockOwned(txCtx, supplierID, poid)
			if err != nil {
				return err
			}
			if _, err := purchaseorder.Next(po.Status, purchaseorder.ActionAccept); err != nil {
				return err
			}
			from = po.Status

			for _, itemID := range sortedKeys(in.ItemExpirations) {
				exp := in.ItemExpirations[itemID]
				if err := s.repo.ProposeItem(txCtx, poid, itemID, purchaseorder.ProposeItemParams{ExpirationDate: &exp}); err != nil {
					return err
				}
			}

			delivery := in.ExpectedDelivery
			pending := purchaseorder.StatusPending
			if err := s.repo.UpdateStatus(txCtx, poid, purchaseorder.UpdateStatusParams{
				Status:           purchaseorder.StatusAccepted,
				ExpectedDelivery: &delivery,
				From:             &pending,
			}); err != nil {
				return err
			}

			updated, err = s.repo.GetByID(txCtx, poid)
			return err
		})
	})
	if err != nil {
		return nil, s.reject(purchaseorder.ActionAccept, withAction(err, purchaseorder.ActionAccept, poid))
	}
	s.publish(updated, purchaseorder.ActionAccept, from)
	return updated, nil
}

func (s *NegotiationService) Propose(ctx context.Context, supplierID, poid int64, in ProposeInput) (*purchaseorder.PurchaseOrder, error) {
	if err := validateProposal(in); err != nil {
		return nil, s.reject(purchaseorder.ActionPropose, err)
	}

	var (
		from    purchaseorder.Status
		updated *purchaseorder.PurchaseOrder
	)
	err := composables.Retry(ctx, "negotiation.propose", func(ctx context.Context) error {
		return s.inTx(ctx, func(txCtx context.Context) error {
			po, err := s.lockOwned(txCtx, supplierID, poid)
			if err != nil {
				return err
			}
			if _, err := purchaseorder.Next(po.Status, purchaseorder.ActionPropose); err != nil {
				return err
			}
			from = po.Status

			// Item terms land before the order leaves Pending.
			for _, p := range in.Items {
				params := purchaseorder.ProposeItemParams{
					Quantity:       p.Quantity,
					Price:          p.Price,
					ExpirationDate: p.ExpirationDate,
				}
				if params.Empty() {
					continue
				}
				if err := s.repo.ProposeItem(txCtx, poid, p.ItemID, params); err != nil {
					return err
				}
			}

			pending := purchaseorder.StatusPending
			if err := s.repo.ProposeOrder(txCtx, poid, purchaseorder.ProposeOrderParams{
				SupProposedDeliver: in.ProposedDelivery,
				SupplierNote:       trimmedOrNil(in.Note),
				From:               &pending,
			}); err != nil {
				return err
			}

			updated, err = s.repo.GetByID(txCtx, poid)
			return err
		})
	})
	if err != nil {
		return nil, s.reject(purchaseorder.ActionPropose, withAction(err, purchaseorder.ActionPropose, poid))
	}
	s.publish(updated, purchaseorder.ActionPropose, from)
	return updated, nil
}

func (s *NegotiationService) Decline(ctx context.Context, supplierID, poid int64, reason string) (*purchaseorder.PurchaseOrder, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, s.reject(purchaseorder.ActionDecline, &purchaseorder.ValidationError{Field: "reason", Reason: "required"})
	}
	return s.guardedMove(ctx, supplierID, poid, purchaseorder.ActionDecline, &reason)
}

func (s *NegotiationService) MarkShipping(ctx context.Context, supplierID, poid int64) (*purchaseorder.PurchaseOrder, error) {
	return s.guardedMove(ctx, supplierID, poid, purchaseorder.ActionShip, nil)
}

func (s *NegotiationService) MarkDelivered(ctx context.Context, supplierID, poid int64) (*purchaseorder.PurchaseOrder, error) {
	return s.guardedMove(ctx, supplierID, poid, purchaseorder.ActionDeliver, nil)
}

// Advance dispatches the parameterless ship and deliver actions by name.
func (s *NegotiationService) Advance(ctx context.Context, supplierID, poid int64, action purchaseorder.Action) (*purchaseorder.PurchaseOrder, error) {
	switch action {
	case purchaseorder.ActionShip, purchaseorder.ActionDeliver:
		return s.guardedMove(ctx, supplierID, poid, action, nil)
	default:
		return nil, s.reject(action, &purchaseorder.ValidationError{Field: "action", Reason: "not an advance action"})
	}
}

// guardedMove checks ownership and the predecessor status, then writes with
// the predecessor as a compare-and-set guard so a duplicate submission loses.
func (s *NegotiationService) guardedMove(
	ctx context.Context,
	supplierID, poid int64,
	action purchaseorder.Action,
	note *string,
) (*purchaseorder.PurchaseOrder, error) {
	from, to, _ := purchaseorder.Transition(action)

	po, err := s.repo.GetByID(ctx, poid)
	if err != nil {
		return nil, s.reject(action, err)
	}
	if !po.BelongsTo(supplierID) {
		return nil, s.reject(action, &purchaseorder.NotFoundError{POID: poid})
	}
	if _, err := purchaseorder.Next(po.Status, action); err != nil {
		return nil, s.reject(action, withAction(err, action, poid))
	}

	if err := s.repo.UpdateStatus(ctx, poid, purchaseorder.UpdateStatusParams{
		Status:       to,
		SupplierNote: note,
		From:         &from,
	}); err != nil {
		return nil, s.reject(action, withAction(err, action, poid))
	}

	updated, err := s.repo.GetByID(ctx, poid)
	if err != nil {
		return nil, s.reject(action, err)
	}
	s.publish(updated, action, from)
	return updated, nil
}

func (s *NegotiationService) lockOwned(ctx context.Context, supplierID, poid int64) (*purchaseorder.PurchaseOrder, error) {
	po, err := s.repo.GetByIDForUpdate(ctx, poid)
	if err != nil {
		return nil, err
	}
	if !po.BelongsTo(supplierID) {
		return nil, &purchaseorder.NotFoundError{POID: poid}
	}
	return po, nil
}

func (s *NegotiationService) publish(po *purchaseorder.PurchaseOrder, action purchaseorder.Action, from purchaseorder.Status) {
	recordTransition(action, "ok")
	if s.publisher == nil || po == nil {
		return
	}
	s.publisher.Publish(purchaseorder.NewStatusChangedEvent(po, action, from, s.now()))
}

func (s *NegotiationService) reject(action purchaseorder.Action, err error) error {
	recordTransition(action, resultLabel(err))
	return err
}

func validateProposal(in ProposeInput) error {
	seen := make(map[int64]bool, len(in.Items))
	for _, p := range in.Items {
		if seen[p.ItemID] {
			return &purchaseorder.ValidationError{Field: "items", Reason: "item " + formatID(p.ItemID) + " listed twice"}
		}
		seen[p.ItemID] = true
		params := purchaseorder.ProposeItemParams{Quantity: p.Quantity, Price: p.Price}
		if err := params.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// withAction names the attempted action on transition errors raised below the
// engine, where only the statuses are known.
func withAction(err error, action purchaseorder.Action, poid int64) error {
	var invalid *purchaseorder.InvalidTransitionError
	if errors.As(err, &invalid) {
		if invalid.Action == "" {
			invalid.Action = action
		}
		if invalid.POID == 0 {
			invalid.POID = poid
		}
		if _, to, ok := purchaseorder.Transition(action); ok {
			invalid.Attempted = to
		}
	}
	return err
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func sortedKeys(m map[int64]time.Time) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
