package services

import (
	"context"
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
)

const archivedSheet = "Archived"

var archivedHeader = []any{
	"POID", "Order Date", "Status", "Expected Delivery", "Proposed Delivery", "Original POID", "Supplier Note", "Responded At",
}

// ExportArchived writes the supplier's archived orders as an xlsx workbook.
func (s *PurchaseOrderService) ExportArchived(ctx context.Context, supplierID int64, w io.Writer) error {
	orders, err := s.repo.ListArchived(ctx, supplierID)
	if err != nil {
		return err
	}
	return writeOrdersWorkbook(orders, w)
}

func writeOrdersWorkbook(orders []*purchaseorder.PurchaseOrder, w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", archivedSheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	sw, err := f.NewStreamWriter(archivedSheet)
	if err != nil {
		return errors.Wrap(err, "stream writer")
	}
	if err := sw.SetRow("A1", archivedHeader); err != nil {
		return errors.Wrap(err, "header row")
	}
	for i, po := range orders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, orderRow(po)); err != nil {
			return errors.Wrapf(err, "row %d", i+2)
		}
	}
	if err := sw.Flush(); err != nil {
		return errors.Wrap(err, "flush")
	}
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func orderRow(po *purchaseorder.PurchaseOrder) []any {
	return []any{
		po.ID,
		po.OrderDate.Format(time.DateOnly),
		string(po.Status),
		formatTimePtr(po.ExpectedDelivery),
		formatTimePtr(po.SupProposedDeliver),
		int64PtrCell(po.OriginalPOID),
		stringPtrCell(po.SupplierNote),
		formatTimePtr(po.RespondedAt),
	}
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateTime)
}

func int64PtrCell(v *int64) any {
	if v == nil {
		return ""
	}
	return *v
}

func stringPtrCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
