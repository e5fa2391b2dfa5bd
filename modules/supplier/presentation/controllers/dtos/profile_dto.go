package dtos

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/amas-erp/supplier-portal/modules/supplier/domain/aggregates/supplier"
	"github.com/amas-erp/supplier-portal/modules/supplier/services"
	"github.com/amas-erp/supplier-portal/pkg/constants"
	"github.com/amas-erp/supplier-portal/pkg/intl"
	"github.com/amas-erp/supplier-portal/pkg/serrors"
)

type ProfileDTO struct {
	Name         string `json:"supplier_name" form:"Name" validate:"max=200"`
	Type         string `json:"supplier_type" form:"Type" validate:"omitempty,oneof=Manufacturer Distributor Retailer Other"`
	Country      string `json:"country" form:"Country" validate:"omitempty,country_name"`
	City         string `json:"city" form:"City" validate:"max=120"`
	Address      string `json:"address" form:"Address" validate:"max=500"`
	PostalCode   string `json:"postal_code" form:"PostalCode" validate:"max=20"`
	ContactName  string `json:"contact_name" form:"ContactName" validate:"max=200"`
	ContactPhone string `json:"contact_phone" form:"ContactPhone" validate:"max=50"`
	PaymentTerms string `json:"payment_terms" form:"PaymentTerms" validate:"max=2000"`
	BankDetails  string `json:"bank_details" form:"BankDetails" validate:"max=2000"`
}

func init() {
	if err := constants.Validate.RegisterValidation("country_name", func(fl validator.FieldLevel) bool {
		return services.KnownCountry(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

func (d *ProfileDTO) Normalize() {
	for _, f := range []*string{
		&d.Name, &d.Type, &d.Country, &d.City, &d.Address, &d.PostalCode,
		&d.ContactName, &d.ContactPhone, &d.PaymentTerms, &d.BankDetails,
	} {
		*f = strings.TrimSpace(*f)
	}
}

func (d *ProfileDTO) Ok(ctx context.Context) (map[string]string, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return map[string]string{}, true
	}
	validatorErrs, ok := errs.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"": errs.Error()}, false
	}
	getFieldLocaleKey := func(field string) string {
		return fmt.Sprintf("Supplier.Fields.%s", field)
	}
	l, _ := intl.UseLocalizer(ctx)
	return serrors.LocalizeValidationErrors(serrors.ProcessValidatorErrors(validatorErrs, getFieldLocaleKey), l), false
}

func (d *ProfileDTO) ToProfile() supplier.Profile {
	return supplier.Profile{
		Name:         d.Name,
		Type:         supplier.Type(d.Type),
		Country:      d.Country,
		City:         d.City,
		Address:      d.Address,
		PostalCode:   d.PostalCode,
		ContactName:  d.ContactName,
		ContactPhone: d.ContactPhone,
		PaymentTerms: d.PaymentTerms,
		BankDetails:  d.BankDetails,
	}
}
