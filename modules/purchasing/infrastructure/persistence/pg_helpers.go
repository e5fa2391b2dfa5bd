package persistence

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Prices travel as text so NUMERIC keeps its scale without a pgx codec.
func decimalParam(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func decimalFromText(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, errors.Wrapf(err, "parse numeric %q", *s)
	}
	return &d, nil
}

func statusParam[T ~string](s *T) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
