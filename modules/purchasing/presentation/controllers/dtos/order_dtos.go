package dtos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/entities/viewstate"
	"github.com/amas-erp/supplier-portal/modules/purchasing/services"
	"github.com/amas-erp/supplier-portal/pkg/constants"
	"github.com/amas-erp/supplier-portal/pkg/intl"
	"github.com/amas-erp/supplier-portal/pkg/serrors"
)

type AcceptItemDTO struct {
	ItemID         int64  `json:"item_id" form:"ItemID" validate:"required,gt=0"`
	ExpirationDate string `json:"expiration_date" form:"ExpirationDate" validate:"omitempty,date"`
}

type AcceptDTO struct {
	ExpectedDelivery string          `json:"expected_delivery" form:"ExpectedDelivery" validate:"required,date"`
	Items            []AcceptItemDTO `json:"items" form:"Items" validate:"dive"`
}

type ProposeItemDTO struct {
	ItemID         int64  `json:"item_id" form:"ItemID" validate:"required,gt=0"`
	Quantity       *int   `json:"quantity" form:"Quantity" validate:"omitempty,gte=0,lte=2147483647"`
	Price          string `json:"price" form:"Price" validate:"omitempty,price"`
	ExpirationDate string `json:"expiration_date" form:"ExpirationDate" validate:"omitempty,date"`
}

type ProposeDTO struct {
	ProposedDelivery string           `json:"proposed_delivery" form:"ProposedDelivery" validate:"omitempty,date"`
	Note             string           `json:"note" form:"Note" validate:"max=2000"`
	Items            []ProposeItemDTO `json:"items" form:"Items" validate:"dive"`
}

type DeclineDTO struct {
	Reason string `json:"reason" form:"Reason" validate:"required,max=2000"`
}

type PanelStateDTO struct {
	Collapsed  bool `json:"collapsed" form:"Collapsed"`
	Confirming bool `json:"confirming" form:"Confirming"`
	Editing    bool `json:"editing" form:"Editing"`
}

func init() {
	if err := constants.Validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, ok := parseDate(fl.Field().String())
		return ok
	}); err != nil {
		panic(err)
	}
	if err := constants.Validate.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && purchaseorder.CheckPrice(d) == nil
	}); err != nil {
		panic(err)
	}
}

func fieldLocaleKey(field string) string {
	switch field {
	case "ExpectedDelivery", "ProposedDelivery", "Note", "Reason", "ItemID",
		"Quantity", "Price", "ExpirationDate":
		return fmt.Sprintf("Purchasing.Fields.%s", field)
	default:
		return ""
	}
}

func validate(ctx context.Context, dto any) (map[string]string, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return map[string]string{}, true
	}
	validatorErrs, ok := errs.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"": errs.Error()}, false
	}
	l, _ := intl.UseLocalizer(ctx)
	return serrors.LocalizeValidationErrors(serrors.ProcessValidatorErrors(validatorErrs, fieldLocaleKey), l), false
}

func (d *AcceptDTO) Ok(ctx context.Context) (map[string]string, bool) {
	d.ExpectedDelivery = strings.TrimSpace(d.ExpectedDelivery)
	return validate(ctx, d)
}

// ToInput assumes Ok passed.
func (d *AcceptDTO) ToInput() services.AcceptInput {
	delivery, _ := parseDate(d.ExpectedDelivery)
	in := services.AcceptInput{ExpectedDelivery: delivery}
	for _, it := range d.Items {
		exp, ok := parseDate(it.ExpirationDate)
		if !ok {
			continue
		}
		if in.ItemExpirations == nil {
			in.ItemExpirations = map[int64]time.Time{}
		}
		in.ItemExpirations[it.ItemID] = exp
	}
	return in
}

func (d *ProposeDTO) Ok(ctx context.Context) (map[string]string, bool) {
	d.Note = strings.TrimSpace(d.Note)
	return validate(ctx, d)
}

func (d *ProposeDTO) ToInput() services.ProposeInput {
	in := services.ProposeInput{}
	in.ProposedDelivery, _ = parseOptionalDate(d.ProposedDelivery)
	if d.Note != "" {
		note := d.Note
		in.Note = &note
	}
	for _, it := range d.Items {
		p := services.ItemProposal{ItemID: it.ItemID, Quantity: it.Quantity}
		if raw := strings.TrimSpace(it.Price); raw != "" {
			if price, err := decimal.NewFromString(raw); err == nil {
				p.Price = &price
			}
		}
		p.ExpirationDate, _ = parseOptionalDate(it.ExpirationDate)
		in.Items = append(in.Items, p)
	}
	return in
}

func (d *DeclineDTO) Ok(ctx context.Context) (map[string]string, bool) {
	d.Reason = strings.TrimSpace(d.Reason)
	return validate(ctx, d)
}

func (d *PanelStateDTO) ToEntity() viewstate.PanelState {
	return viewstate.PanelState{Collapsed: d.Collapsed, Confirming: d.Confirming, Editing: d.Editing}
}
