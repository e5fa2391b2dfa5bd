package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
)

// fakeRepository mirrors the SQL repository: COALESCE writes, the status
// guard and RespondedAt stamping.
type fakeRepository struct {
	mu     sync.Mutex
	orders map[int64]*purchaseorder.PurchaseOrder
	items  map[int64][]*purchaseorder.Item

	// failures queues errors returned by the next calls of an operation.
	failures map[string][]error
	// beforeWrite runs ahead of every status write, simulating a racing request.
	beforeWrite func(poid int64)
	calls       []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		orders:   map[int64]*purchaseorder.PurchaseOrder{},
		items:    map[int64][]*purchaseorder.Item{},
		failures: map[string][]error{},
	}
}

func (f *fakeRepository) addOrder(po purchaseorder.PurchaseOrder, items ...purchaseorder.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[po.ID] = &po
	for i := range items {
		it := items[i]
		it.POID = po.ID
		f.items[po.ID] = append(f.items[po.ID], &it)
	}
}

func (f *fakeRepository) failNext(op string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = append(f.failures[op], errs...)
}

func (f *fakeRepository) enter(op string) error {
	f.calls = append(f.calls, op)
	queued := f.failures[op]
	if len(queued) == 0 {
		return nil
	}
	f.failures[op] = queued[1:]
	return queued[0]
}

func (f *fakeRepository) order(poid int64) purchaseorder.PurchaseOrder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *cloneOrder(f.orders[poid])
}

func (f *fakeRepository) item(poid, itemID int64) purchaseorder.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items[poid] {
		if it.ItemID == itemID {
			return *cloneItem(it)
		}
	}
	panic("no such item")
}

// runInTx restores the pre-call state when fn fails.
func (f *fakeRepository) runInTx(ctx context.Context, fn func(context.Context) error) error {
	f.mu.Lock()
	orders := make(map[int64]*purchaseorder.PurchaseOrder, len(f.orders))
	for k, v := range f.orders {
		orders[k] = cloneOrder(v)
	}
	items := make(map[int64][]*purchaseorder.Item, len(f.items))
	for k, v := range f.items {
		for _, it := range v {
			items[k] = append(items[k], cloneItem(it))
		}
	}
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.orders, f.items = orders, items
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeRepository) list(op string, supplierID int64, statuses []purchaseorder.Status) ([]*purchaseorder.PurchaseOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(op); err != nil {
		return nil, err
	}
	out := []*purchaseorder.PurchaseOrder{}
	for _, po := range f.orders {
		if po.SupplierID != supplierID {
			continue
		}
		for _, s := range statuses {
			if po.Status == s {
				out = append(out, cloneOrder(po))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].OrderDate.After(out[j].OrderDate)
	})
	return out, nil
}

func (f *fakeRepository) ListActive(ctx context.Context, supplierID int64) ([]*purchaseorder.PurchaseOrder, error) {
	return f.list("list_active", supplierID, purchaseorder.ActiveStatuses)
}

func (f *fakeRepository) ListArchived(ctx context.Context, supplierID int64) ([]*purchaseorder.PurchaseOrder, error) {
	return f.list("list_archived", supplierID, purchaseorder.ArchivedStatuses)
}

func (f *fakeRepository) ListItems(ctx context.Context, poid int64) ([]*purchaseorder.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("list_items"); err != nil {
		return nil, err
	}
	out := []*purchaseorder.Item{}
	for _, it := range f.items[poid] {
		out = append(out, cloneItem(it))
	}
	return out, nil
}

func (f *fakeRepository) get(op string, poid int64) (*purchaseorder.PurchaseOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(op); err != nil {
		return nil, err
	}
	po, ok := f.orders[poid]
	if !ok {
		return nil, &purchaseorder.NotFoundError{POID: poid}
	}
	return cloneOrder(po), nil
}

func (f *fakeRepository) GetByID(ctx context.Context, poid int64) (*purchaseorder.PurchaseOrder, error) {
	return f.get("get", poid)
}

func (f *fakeRepository) GetByIDForUpdate(ctx context.Context, poid int64) (*purchaseorder.PurchaseOrder, error) {
	return f.get("get_for_update", poid)
}

func (f *fakeRepository) guard(poid int64, from *purchaseorder.Status, attempted purchaseorder.Status) (*purchaseorder.PurchaseOrder, error) {
	po, ok := f.orders[poid]
	if !ok {
		return nil, &purchaseorder.NotFoundError{POID: poid}
	}
	if from != nil && po.Status != *from {
		return nil, &purchaseorder.InvalidTransitionError{POID: poid, Current: po.Status, Attempted: attempted}
	}
	return po, nil
}

func (f *fakeRepository) UpdateStatus(ctx context.Context, poid int64, params purchaseorder.UpdateStatusParams) error {
	if f.beforeWrite != nil {
		f.beforeWrite(poid)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("update_status"); err != nil {
		return err
	}
	po, err := f.guard(poid, params.From, params.Status)
	if err != nil {
		return err
	}
	po.Status = params.Status
	if params.ExpectedDelivery != nil {
		v := *params.ExpectedDelivery
		po.ExpectedDelivery = &v
	}
	if params.SupplierNote != nil {
		v := *params.SupplierNote
		po.SupplierNote = &v
	}
	now := time.Now()
	po.RespondedAt = &now
	return nil
}

func (f *fakeRepository) ProposeOrder(ctx context.Context, poid int64, params purchaseorder.ProposeOrderParams) error {
	if f.beforeWrite != nil {
		f.beforeWrite(poid)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("propose_order"); err != nil {
		return err
	}
	po, err := f.guard(poid, params.From, purchaseorder.StatusProposedBySupplier)
	if err != nil {
		return err
	}
	po.Status = purchaseorder.StatusProposedBySupplier
	if params.SupProposedDeliver != nil {
		v := *params.SupProposedDeliver
		po.SupProposedDeliver = &v
	}
	if params.SupplierNote != nil {
		v := *params.SupplierNote
		po.SupplierNote = &v
	}
	now := time.Now()
	po.RespondedAt = &now
	return nil
}

func (f *fakeRepository) ProposeItem(ctx context.Context, poid, itemID int64, params purchaseorder.ProposeItemParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("propose_item"); err != nil {
		return err
	}
	for _, it := range f.items[poid] {
		if it.ItemID != itemID {
			continue
		}
		if params.Quantity != nil {
			v := *params.Quantity
			it.SupProposedQuantity = &v
		}
		if params.Price != nil {
			v := *params.Price
			it.SupProposedPrice = &v
		}
		if params.ExpirationDate != nil {
			v := *params.ExpirationDate
			it.SupExpirationDate = &v
		}
		return nil
	}
	return &purchaseorder.NotFoundError{POID: poid, ItemID: &itemID}
}

func cloneOrder(po *purchaseorder.PurchaseOrder) *purchaseorder.PurchaseOrder {
	if po == nil {
		return nil
	}
	c := *po
	return &c
}

func cloneItem(it *purchaseorder.Item) *purchaseorder.Item {
	c := *it
	return &c
}
