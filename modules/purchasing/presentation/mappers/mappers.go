package mappers

import (
	"sort"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/entities/viewstate"
	"github.com/amas-erp/supplier-portal/modules/purchasing/presentation/viewmodels"
	"github.com/amas-erp/supplier-portal/modules/purchasing/services"
)

const dateTimeLayout = "2006-01-02 15:04"

// Translate resolves a locale key; the mappers stay independent of the localizer.
type Translate func(key string) string

func StatusLocaleKey(s purchaseorder.Status) string {
	switch s {
	case purchaseorder.StatusPending:
		return "Purchasing.Statuses.Pending"
	case purchaseorder.StatusAccepted:
		return "Purchasing.Statuses.Accepted"
	case purchaseorder.StatusProposedBySupplier:
		return "Purchasing.Statuses.ProposedBySupplier"
	case purchaseorder.StatusDeclined:
		return "Purchasing.Statuses.Declined"
	case purchaseorder.StatusShipping:
		return "Purchasing.Statuses.Shipping"
	case purchaseorder.StatusDelivered:
		return "Purchasing.Statuses.Delivered"
	case purchaseorder.StatusCompleted:
		return "Purchasing.Statuses.Completed"
	case purchaseorder.StatusDeclinedByAMAS:
		return "Purchasing.Statuses.DeclinedByAMAS"
	case purchaseorder.StatusDeclinedBySupplier:
		return "Purchasing.Statuses.DeclinedBySupplier"
	default:
		return ""
	}
}

func formatTime(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}

// MoneyOf renders d in currency. Amounts are rounded to the currency's
// minor unit for display only; Amount keeps the stored precision.
func MoneyOf(d *decimal.Decimal, currency string) *viewmodels.Money {
	if d == nil {
		return nil
	}
	fraction := 2
	if c := money.GetCurrency(currency); c != nil {
		fraction = c.Fraction
	}
	minor := d.Shift(int32(fraction)).Round(0).IntPart()
	return &viewmodels.Money{
		Amount:  d.String(),
		Display: money.New(minor, currency).Display(),
	}
}

func OrderToViewModel(po *purchaseorder.PurchaseOrder, t Translate) *viewmodels.Order {
	label := string(po.Status)
	if key := StatusLocaleKey(po.Status); key != "" && t != nil {
		if localized := t(key); localized != "" && localized != key {
			label = localized
		}
	}
	actions := purchaseorder.AllowedActions(po.Status)
	allowed := make([]string, 0, len(actions))
	for _, a := range actions {
		allowed = append(allowed, string(a))
	}
	note := ""
	if po.SupplierNote != nil {
		note = *po.SupplierNote
	}
	return &viewmodels.Order{
		POID:             po.ID,
		OrderDate:        po.OrderDate.Format(time.DateOnly),
		Status:           string(po.Status),
		StatusLabel:      label,
		ExpectedDelivery: formatTime(po.ExpectedDelivery, dateTimeLayout),
		ProposedDelivery: formatTime(po.SupProposedDeliver, dateTimeLayout),
		OriginalPOID:     po.OriginalPOID,
		SupplierNote:     note,
		RespondedAt:      formatTime(po.RespondedAt, dateTimeLayout),
		Archived:         po.Archived(),
		AllowedActions:   allowed,
	}
}

func OrdersToViewModels(orders []*purchaseorder.PurchaseOrder, t Translate) []*viewmodels.Order {
	out := make([]*viewmodels.Order, 0, len(orders))
	for _, po := range orders {
		out = append(out, OrderToViewModel(po, t))
	}
	return out
}

func ItemToViewModel(item *services.ItemDetail, currency string) *viewmodels.Item {
	vm := &viewmodels.Item{
		ItemID:           item.ItemID,
		Name:             item.ItemName,
		OrderedQuantity:  item.OrderedQuantity,
		EstimatedPrice:   MoneyOf(item.EstimatedPrice, currency),
		ProposedQuantity: item.SupProposedQuantity,
		ProposedPrice:    MoneyOf(item.SupProposedPrice, currency),
		ExpirationDate:   formatTime(item.SupExpirationDate, time.DateOnly),
	}
	if item.PictureURI != nil {
		vm.PictureURI = *item.PictureURI
	}
	if item.EstimatedPrice != nil {
		subtotal := item.EstimatedPrice.Mul(decimal.NewFromInt(int64(item.OrderedQuantity)))
		vm.EstimatedSubtotal = MoneyOf(&subtotal, currency)
	}
	return vm
}

func DetailToViewModel(d *services.OrderDetail, currency string, t Translate) *viewmodels.OrderDetail {
	vm := &viewmodels.OrderDetail{
		Order: OrderToViewModel(d.Order, t),
		Items: make([]*viewmodels.Item, 0, len(d.Items)),
	}
	total := decimal.Zero
	priced := false
	for _, it := range d.Items {
		vm.Items = append(vm.Items, ItemToViewModel(it, currency))
		if it.EstimatedPrice != nil {
			total = total.Add(it.EstimatedPrice.Mul(decimal.NewFromInt(int64(it.OrderedQuantity))))
			priced = true
		}
	}
	if priced {
		vm.Total = MoneyOf(&total, currency)
	}
	return vm
}

func BoardToViewModels(board viewstate.Board) []*viewmodels.PanelState {
	out := make([]*viewmodels.PanelState, 0, len(board))
	for poid, s := range board {
		out = append(out, &viewmodels.PanelState{
			POID:       poid,
			Collapsed:  s.Collapsed,
			Confirming: s.Confirming,
			Editing:    s.Editing,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].POID < out[j].POID })
	return out
}
