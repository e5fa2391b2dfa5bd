package viewmodels

type MissingField struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

type Profile struct {
	ID            int64          `json:"supplier_id"`
	Name          string         `json:"supplier_name"`
	Type          string         `json:"supplier_type"`
	Country       string         `json:"country"`
	City          string         `json:"city"`
	Address       string         `json:"address"`
	PostalCode    string         `json:"postal_code"`
	ContactName   string         `json:"contact_name"`
	ContactEmail  string         `json:"contact_email"`
	ContactPhone  string         `json:"contact_phone"`
	PaymentTerms  string         `json:"payment_terms"`
	BankDetails   string         `json:"bank_details"`
	UpdatedAt     string         `json:"updated_at"`
	MissingFields []MissingField `json:"missing_fields"`
	Complete      bool           `json:"complete"`
}

type FormOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FormField struct {
	Field     string       `json:"field"`
	Label     string       `json:"label"`
	Type      string       `json:"type"`
	Options   []FormOption `json:"options,omitempty"`
	DependsOn string       `json:"depends_on,omitempty"`
}
