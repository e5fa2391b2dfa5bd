package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/language"

	"github.com/amas-erp/supplier-portal/modules/supplier/domain/aggregates/supplier"
	"github.com/amas-erp/supplier-portal/pkg/composables"
)

type SupplierOption func(*SupplierService)

// WithTxRunner replaces the database transaction used by SaveDetails.
func WithTxRunner(run func(ctx context.Context, fn func(context.Context) error) error) SupplierOption {
	return func(s *SupplierService) { s.inTx = run }
}

type SupplierService struct {
	repo supplier.Repository
	inTx func(ctx context.Context, fn func(context.Context) error) error
}

func NewSupplierService(repo supplier.Repository, opts ...SupplierOption) *SupplierService {
	s := &SupplierService{repo: repo, inTx: composables.InTx}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetOrCreateByEmail returns the supplier signed in as email, creating a blank
// profile on first sign-in.
func (s *SupplierService) GetOrCreateByEmail(ctx context.Context, email string) (*supplier.Supplier, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, errors.New("supplier e-mail is empty")
	}
	found, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, supplier.ErrSupplierNotFound) {
		return nil, err
	}
	created, err := s.repo.Create(ctx, email)
	if err != nil {
		return nil, err
	}
	composables.TryUseLogger(ctx).WithField("supplier_id", created.ID).Info("supplier profile created on first sign-in")
	return created, nil
}

// ResolveSupplierID lets the request middleware map the proxy identity to a supplier.
func (s *SupplierService) ResolveSupplierID(ctx context.Context, email string) (int64, error) {
	sup, err := s.GetOrCreateByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return sup.ID, nil
}

// GetByEmail looks a supplier up without creating one.
func (s *SupplierService) GetByEmail(ctx context.Context, email string) (*supplier.Supplier, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

func (s *SupplierService) GetByID(ctx context.Context, id int64) (*supplier.Supplier, error) {
	return s.repo.GetByID(ctx, id)
}

// SaveDetails overwrites the profile of supplier id with p.
func (s *SupplierService) SaveDetails(ctx context.Context, id int64, p supplier.Profile) (*supplier.Supplier, error) {
	var saved *supplier.Supplier
	err := s.inTx(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		current.Apply(p)
		if err := s.repo.Update(txCtx, current); err != nil {
			return err
		}
		saved, err = s.repo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *SupplierService) Cities(ctx context.Context, country string) ([]string, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return []string{}, nil
	}
	return s.repo.ListCities(ctx, country)
}

type FormFieldKind string

const (
	FormFieldText          FormFieldKind = "text"
	FormFieldTextarea      FormFieldKind = "textarea"
	FormFieldSelect        FormFieldKind = "select"
	FormFieldDynamicSelect FormFieldKind = "dynamic_select"
)

// FormOption is a select choice. Label is a locale key for supplier types and
// a ready label for countries.
type FormOption struct {
	Value string
	Label string
}

type FormField struct {
	Field     supplier.Field
	LabelKey  string
	Kind      FormFieldKind
	Options   []FormOption
	DependsOn supplier.Field
}

// FormStructure describes the profile form so clients can render it.
func (s *SupplierService) FormStructure(locale language.Tag) []FormField {
	typeOptions := make([]FormOption, 0, len(supplier.Types))
	for _, t := range supplier.Types {
		typeOptions = append(typeOptions, FormOption{Value: string(t), Label: "Supplier.Types." + string(t)})
	}
	countries := Countries(locale)
	countryOptions := make([]FormOption, 0, len(countries))
	for _, c := range countries {
		countryOptions = append(countryOptions, FormOption{Value: c.Name, Label: c.Label})
	}

	fields := make([]FormField, 0, len(supplier.ProfileFields))
	for _, f := range supplier.ProfileFields {
		ff := FormField{Field: f, LabelKey: FieldLocaleKey(f), Kind: FormFieldText}
		switch f {
		case supplier.FieldType:
			ff.Kind, ff.Options = FormFieldSelect, typeOptions
		case supplier.FieldCountry:
			ff.Kind, ff.Options = FormFieldSelect, countryOptions
		case supplier.FieldCity:
			ff.Kind, ff.DependsOn = FormFieldDynamicSelect, supplier.FieldCountry
		case supplier.FieldPaymentTerms, supplier.FieldBankDetails:
			ff.Kind = FormFieldTextarea
		}
		fields = append(fields, ff)
	}
	return fields
}

func FieldLocaleKey(f supplier.Field) string {
	switch f {
	case supplier.FieldName:
		return "Supplier.Fields.Name"
	case supplier.FieldType:
		return "Supplier.Fields.Type"
	case supplier.FieldCountry:
		return "Supplier.Fields.Country"
	case supplier.FieldCity:
		return "Supplier.Fields.City"
	case supplier.FieldAddress:
		return "Supplier.Fields.Address"
	case supplier.FieldPostalCode:
		return "Supplier.Fields.PostalCode"
	case supplier.FieldContactName:
		return "Supplier.Fields.ContactName"
	case supplier.FieldContactPhone:
		return "Supplier.Fields.ContactPhone"
	case supplier.FieldPaymentTerms:
		return "Supplier.Fields.PaymentTerms"
	case supplier.FieldBankDetails:
		return "Supplier.Fields.BankDetails"
	default:
		return ""
	}
}
