package services

import (
	"context"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
	"github.com/amas-erp/supplier-portal/pkg/imagedata"
)

type ItemDetail struct {
	*purchaseorder.Item
	// PictureURI is nil when there is no picture or it cannot be rendered.
	PictureURI *string
}

type OrderDetail struct {
	Order          *purchaseorder.PurchaseOrder
	Items          []*ItemDetail
	AllowedActions []purchaseorder.Action
}

// PurchaseOrderService serves the supplier's read views.
type PurchaseOrderService struct {
	repo purchaseorder.Repository
}

func NewPurchaseOrderService(repo purchaseorder.Repository) *PurchaseOrderService {
	return &PurchaseOrderService{repo: repo}
}

func (s *PurchaseOrderService) ListActive(ctx context.Context, supplierID int64) ([]*purchaseorder.PurchaseOrder, error) {
	return s.repo.ListActive(ctx, supplierID)
}

func (s *PurchaseOrderService) ListArchived(ctx context.Context, supplierID int64) ([]*purchaseorder.PurchaseOrder, error) {
	return s.repo.ListArchived(ctx, supplierID)
}

func (s *PurchaseOrderService) GetDetail(ctx context.Context, supplierID, poid int64) (*OrderDetail, error) {
	po, err := s.repo.GetByID(ctx, poid)
	if err != nil {
		return nil, err
	}
	if !po.BelongsTo(supplierID) {
		return nil, &purchaseorder.NotFoundError{POID: poid}
	}
	items, err := s.repo.ListItems(ctx, poid)
	if err != nil {
		return nil, err
	}

	details := make([]*ItemDetail, 0, len(items))
	for _, item := range items {
		details = append(details, &ItemDetail{
			Item:       item,
			PictureURI: imagedata.DataURI(item.Picture),
		})
	}
	return &OrderDetail{
		Order:          po,
		Items:          details,
		AllowedActions: purchaseorder.AllowedActions(po.Status),
	}, nil
}
