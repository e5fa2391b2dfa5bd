package purchaseorder

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestProposeItemParams_Validate(t *testing.T) {
	qty := func(v int) *int { return &v }
	price := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	ok := []ProposeItemParams{
		{},
		{Quantity: qty(0), Price: price("0")},
		{Quantity: qty(MaxQuantity), Price: price("9999999999.9999")},
		{Price: price("2.5000")},
	}
	for _, p := range ok {
		require.NoError(t, p.Validate())
	}

	bad := []struct {
		field  string
		params ProposeItemParams
	}{
		{"quantity", ProposeItemParams{Quantity: qty(-1)}},
		{"quantity", ProposeItemParams{Quantity: qty(MaxQuantity + 1)}},
		{"price", ProposeItemParams{Price: price("-0.01")}},
		{"price", ProposeItemParams{Price: price("10000000000")}},
		{"price", ProposeItemParams{Price: price("0.00001")}},
	}
	for _, tc := range bad {
		var verr *ValidationError
		require.ErrorAs(t, tc.params.Validate(), &verr)
		require.Equal(t, tc.field, verr.Field)
	}
}
