package mappers

import (
	"time"

	"github.com/amas-erp/supplier-portal/modules/supplier/domain/aggregates/supplier"
	"github.com/amas-erp/supplier-portal/modules/supplier/presentation/viewmodels"
	"github.com/amas-erp/supplier-portal/modules/supplier/services"
)

type Translate func(key string) string

func SupplierToProfile(s *supplier.Supplier, t Translate) *viewmodels.Profile {
	missing := s.MissingFields()
	vm := &viewmodels.Profile{
		ID:            s.ID,
		Name:          s.Name,
		Type:          string(s.Type),
		Country:       s.Country,
		City:          s.City,
		Address:       s.Address,
		PostalCode:    s.PostalCode,
		ContactName:   s.ContactName,
		ContactEmail:  s.ContactEmail,
		ContactPhone:  s.ContactPhone,
		PaymentTerms:  s.PaymentTerms,
		BankDetails:   s.BankDetails,
		UpdatedAt:     s.UpdatedAt.Format(time.RFC3339),
		MissingFields: make([]viewmodels.MissingField, 0, len(missing)),
		Complete:      len(missing) == 0,
	}
	for _, f := range missing {
		vm.MissingFields = append(vm.MissingFields, viewmodels.MissingField{
			Field: string(f),
			Label: t(services.FieldLocaleKey(f)),
		})
	}
	return vm
}

func FormToViewModels(fields []services.FormField, t Translate) []viewmodels.FormField {
	out := make([]viewmodels.FormField, 0, len(fields))
	for _, f := range fields {
		vm := viewmodels.FormField{
			Field:     string(f.Field),
			Label:     t(f.LabelKey),
			Type:      string(f.Kind),
			DependsOn: string(f.DependsOn),
		}
		for _, o := range f.Options {
			label := o.Label
			if f.Field == supplier.FieldType {
				label = t(o.Label)
			}
			vm.Options = append(vm.Options, viewmodels.FormOption{Value: o.Value, Label: label})
		}
		out = append(out, vm)
	}
	return out
}
