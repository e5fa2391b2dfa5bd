package supplier

import (
	"strings"
	"time"
)

type Type string

const (
	TypeManufacturer Type = "Manufacturer"
	TypeDistributor  Type = "Distributor"
	TypeRetailer     Type = "Retailer"
	TypeOther        Type = "Other"
)

var Types = []Type{TypeManufacturer, TypeDistributor, TypeRetailer, TypeOther}

func (t Type) Valid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

// Supplier is the profile of a supplier company. ContactEmail is the sign-in
// identity and never changes after creation.
type Supplier struct {
	ID           int64
	Name         string
	Type         Type
	Country      string
	City         string
	Address      string
	PostalCode   string
	ContactName  string
	ContactEmail string
	ContactPhone string
	PaymentTerms string
	BankDetails  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Field names a profile field the supplier is expected to fill in.
type Field string

const (
	FieldName         Field = "supplier_name"
	FieldType         Field = "supplier_type"
	FieldCountry      Field = "country"
	FieldCity         Field = "city"
	FieldAddress      Field = "address"
	FieldPostalCode   Field = "postal_code"
	FieldContactName  Field = "contact_name"
	FieldContactPhone Field = "contact_phone"
	FieldPaymentTerms Field = "payment_terms"
	FieldBankDetails  Field = "bank_details"
)

// ProfileFields lists the fillable fields in display order.
var ProfileFields = []Field{
	FieldName,
	FieldType,
	FieldCountry,
	FieldCity,
	FieldAddress,
	FieldPostalCode,
	FieldContactName,
	FieldContactPhone,
	FieldPaymentTerms,
	FieldBankDetails,
}

func (s *Supplier) value(f Field) string {
	switch f {
	case FieldName:
		return s.Name
	case FieldType:
		return string(s.Type)
	case FieldCountry:
		return s.Country
	case FieldCity:
		return s.City
	case FieldAddress:
		return s.Address
	case FieldPostalCode:
		return s.PostalCode
	case FieldContactName:
		return s.ContactName
	case FieldContactPhone:
		return s.ContactPhone
	case FieldPaymentTerms:
		return s.PaymentTerms
	case FieldBankDetails:
		return s.BankDetails
	default:
		return ""
	}
}

// MissingFields reports the profile fields that are still blank.
func (s *Supplier) MissingFields() []Field {
	missing := make([]Field, 0, len(ProfileFields))
	for _, f := range ProfileFields {
		if strings.TrimSpace(s.value(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

func (s *Supplier) Complete() bool {
	return len(s.MissingFields()) == 0
}

// Profile holds the editable part of a supplier. Every field is overwritten
// on save; an empty value clears it.
type Profile struct {
	Name         string
	Type         Type
	Country      string
	City         string
	Address      string
	PostalCode   string
	ContactName  string
	ContactPhone string
	PaymentTerms string
	BankDetails  string
}

func (s *Supplier) Apply(p Profile) {
	s.Name = p.Name
	s.Type = p.Type
	s.Country = p.Country
	s.City = p.City
	s.Address = p.Address
	s.PostalCode = p.PostalCode
	s.ContactName = p.ContactName
	s.ContactPhone = p.ContactPhone
	s.PaymentTerms = p.PaymentTerms
	s.BankDetails = p.BankDetails
}
