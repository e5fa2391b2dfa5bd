package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
	"github.com/amas-erp/supplier-portal/pkg/composables"
)

const (
	selectOrderColumns = `
		SELECT poid, supplier_id, order_date, expected_delivery, status,
		       sup_proposed_deliver, original_poid, supplier_note, responded_at
		FROM purchase_orders`

	listBySupplierAndStatusQuery = selectOrderColumns + `
		WHERE supplier_id = $1 AND status = ANY($2::text[])
		ORDER BY order_date DESC, poid DESC`

	getByIDQuery          = selectOrderColumns + ` WHERE poid = $1`
	getByIDForUpdateQuery = selectOrderColumns + ` WHERE poid = $1 FOR UPDATE`

	listItemsQuery = `
		SELECT poi.poid, poi.item_id, i.item_name_english, i.item_picture,
		       poi.ordered_quantity, poi.estimated_price::text,
		       poi.sup_proposed_quantity, poi.sup_proposed_price::text,
		       poi.sup_expiration_date::timestamp
		FROM purchase_order_items poi
		JOIN items i ON i.item_id = poi.item_id
		WHERE poi.poid = $1
		ORDER BY poi.item_id`

	updateStatusQuery = `
		UPDATE purchase_orders
		SET status            = $2,
		    expected_delivery = COALESCE($3::timestamptz, expected_delivery),
		    supplier_note     = COALESCE($4::text, supplier_note),
		    responded_at      = now()
		WHERE poid = $1
		  AND ($5::text IS NULL OR status = $5::text)`

	proposeOrderQuery = `
		UPDATE purchase_orders
		SET status               = 'Proposed by Supplier',
		    sup_proposed_deliver = COALESCE($2::timestamptz, sup_proposed_deliver),
		    supplier_note        = COALESCE($3::text, supplier_note),
		    responded_at         = now()
		WHERE poid = $1
		  AND ($4::text IS NULL OR status = $4::text)`

	proposeItemQuery = `
		UPDATE purchase_order_items
		SET sup_proposed_quantity = COALESCE($3::integer, sup_proposed_quantity),
		    sup_proposed_price    = COALESCE($4::numeric, sup_proposed_price),
		    sup_expiration_date   = COALESCE($5::date, sup_expiration_date)
		WHERE poid = $1
		  AND item_id = $2`

	currentStatusQuery = `SELECT status FROM purchase_orders WHERE poid = $1`
)

type PurchaseOrderRepository struct{}

func NewPurchaseOrderRepository() purchaseorder.Repository {
	return &PurchaseOrderRepository{}
}

func (r *PurchaseOrderRepository) ListActive(ctx context.Context, supplierID int64) ([]*purchaseorder.PurchaseOrder, error) {
	return r.listByStatus(ctx, "purchase_orders.list_active", supplierID, purchaseorder.ActiveStatuses)
}

func (r *PurchaseOrderRepository) ListArchived(ctx context.Context, supplierID int64) ([]*purchaseorder.PurchaseOrder, error) {
	return r.listByStatus(ctx, "purchase_orders.list_archived", supplierID, purchaseorder.ArchivedStatuses)
}

func (r *PurchaseOrderRepository) listByStatus(
	ctx context.Context,
	op string,
	supplierID int64,
	statuses []purchaseorder.Status,
) ([]*purchaseorder.PurchaseOrder, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	var out []*purchaseorder.PurchaseOrder
	err := composables.Retry(ctx, op, func(ctx context.Context) error {
		tx, err := composables.UseTx(ctx)
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, listBySupplierAndStatusQuery, supplierID, names)
		if err != nil {
			return err
		}
		orders, err := pgx.CollectRows(rows, scanOrder)
		if err != nil {
			return err
		}
		out = orders
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if out == nil {
		out = []*purchaseorder.PurchaseOrder{}
	}
	return out, nil
}

func (r *PurchaseOrderRepository) ListItems(ctx context.Context, poid int64) ([]*purchaseorder.Item, error) {
	var out []*purchaseorder.Item
	err := composables.Retry(ctx, "purchase_orders.list_items", func(ctx context.Context) error {
		tx, err := composables.UseTx(ctx)
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, listItemsQuery, poid)
		if err != nil {
			return err
		}
		items, err := pgx.CollectRows(rows, scanItem)
		if err != nil {
			return err
		}
		out = items
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "purchase_orders.list_items")
	}
	if out == nil {
		out = []*purchaseorder.Item{}
	}
	return out, nil
}

func (r *PurchaseOrderRepository) GetByID(ctx context.Context, poid int64) (*purchaseorder.PurchaseOrder, error) {
	return r.getOne(ctx, "purchase_orders.get", getByIDQuery, poid)
}

func (r *PurchaseOrderRepository) GetByIDForUpdate(ctx context.Context, poid int64) (*purchaseorder.PurchaseOrder, error) {
	if !composables.InTxScope(ctx) {
		return nil, errors.Wrap(composables.ErrNoTx, "purchase_orders.get_for_update")
	}
	return r.getOne(ctx, "purchase_orders.get_for_update", getByIDForUpdateQuery, poid)
}

func (r *PurchaseOrderRepository) getOne(ctx context.Context, op, query string, poid int64) (*purchaseorder.PurchaseOrder, error) {
	var out *purchaseorder.PurchaseOrder
	err := composables.Retry(ctx, op, func(ctx context.Context) error {
		tx, err := composables.UseTx(ctx)
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, query, poid)
		if err != nil {
			return err
		}
		po, err := pgx.CollectExactlyOneRow(rows, scanOrder)
		if err != nil {
			return err
		}
		out = po
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &purchaseorder.NotFoundError{POID: poid}
	}
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return out, nil
}

func (r *PurchaseOrderRepository) UpdateStatus(ctx context.Context, poid int64, params purchaseorder.UpdateStatusParams) error {
	if !params.Status.Valid() {
		return &purchaseorder.ValidationError{Field: "status", Reason: "unknown status " + string(params.Status)}
	}
	const op = "purchase_orders.update_status"
	var affected int64
	attempts := 0
	err := composables.Retry(ctx, op, func(ctx context.Context) error {
		attempts++
		tx, err := composables.UseTx(ctx)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, updateStatusQuery,
			poid,
			string(params.Status),
			params.ExpectedDelivery,
			params.SupplierNote,
			statusParam(params.From),
		)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return errors.Wrap(err, op)
	}
	if affected == 0 {
		return r.explainMiss(ctx, poid, params.Status, attempts > 1)
	}
	return nil
}

func (r *PurchaseOrderRepository) ProposeOrder(ctx context.Context, poid int64, params purchaseorder.ProposeOrderParams) error {
	const op = "purchase_orders.propose_order"
	var affected int64
	attempts := 0
	err := composables.Retry(ctx, op, func(ctx context.Context) error {
		attempts++
		tx, err := composables.UseTx(ctx)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, proposeOrderQuery,
			poid,
			params.SupProposedDeliver,
			params.SupplierNote,
			statusParam(params.From),
		)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return errors.Wrap(err, op)
	}
	if affected == 0 {
		return r.explainMiss(ctx, poid, purchaseorder.StatusProposedBySupplier, attempts > 1)
	}
	return nil
}

func (r *PurchaseOrderRepository) ProposeItem(ctx context.Context, poid, itemID int64, params purchaseorder.ProposeItemParams) error {
	const op = "purchase_orders.propose_item"
	if err := params.Validate(); err != nil {
		return err
	}
	var quantity *int32
	if params.Quantity != nil {
		q := int32(*params.Quantity)
		quantity = &q
	}
	var affected int64
	err := composables.Retry(ctx, op, func(ctx context.Context) error {
		tx, err := composables.UseTx(ctx)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, proposeItemQuery,
			poid,
			itemID,
			quantity,
			decimalParam(params.Price),
			params.ExpirationDate,
		)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return errors.Wrap(err, op)
	}
	if affected == 0 {
		return &purchaseorder.NotFoundError{POID: poid, ItemID: &itemID}
	}
	return nil
}

// explainMiss tells a missing row apart from a failed status guard. After a
// retry the first attempt may have committed before its reply was lost, so a
// row already in the attempted status counts as written.
func (r *PurchaseOrderRepository) explainMiss(ctx context.Context, poid int64, attempted purchaseorder.Status, retried bool) error {
	var current string
	err := composables.Retry(ctx, "purchase_orders.current_status", func(ctx context.Context) error {
		tx, err := composables.UseTx(ctx)
		if err != nil {
			return err
		}
		return tx.QueryRow(ctx, currentStatusQuery, poid).Scan(&current)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return &purchaseorder.NotFoundError{POID: poid}
	}
	if err != nil {
		return errors.Wrap(err, "purchase_orders.current_status")
	}
	if retried && purchaseorder.Status(current) == attempted {
		return nil
	}
	return &purchaseorder.InvalidTransitionError{
		POID:      poid,
		Current:   purchaseorder.Status(current),
		Attempted: attempted,
	}
}

func scanOrder(row pgx.CollectableRow) (*purchaseorder.PurchaseOrder, error) {
	var (
		po     purchaseorder.PurchaseOrder
		status string
	)
	if err := row.Scan(
		&po.ID,
		&po.SupplierID,
		&po.OrderDate,
		&po.ExpectedDelivery,
		&status,
		&po.SupProposedDeliver,
		&po.OriginalPOID,
		&po.SupplierNote,
		&po.RespondedAt,
	); err != nil {
		return nil, err
	}
	po.Status = purchaseorder.Status(status)
	return &po, nil
}

func scanItem(row pgx.CollectableRow) (*purchaseorder.Item, error) {
	var (
		item          purchaseorder.Item
		orderedQty    int32
		estimated     *string
		proposedQty   *int32
		proposedPrice *string
	)
	if err := row.Scan(
		&item.POID,
		&item.ItemID,
		&item.ItemName,
		&item.Picture,
		&orderedQty,
		&estimated,
		&proposedQty,
		&proposedPrice,
		&item.SupExpirationDate,
	); err != nil {
		return nil, err
	}
	item.OrderedQuantity = int(orderedQty)
	item.SupProposedQuantity = intPtr(proposedQty)

	var err error
	if item.EstimatedPrice, err = decimalFromText(estimated); err != nil {
		return nil, err
	}
	if item.SupProposedPrice, err = decimalFromText(proposedPrice); err != nil {
		return nil, err
	}
	return &item, nil
}
