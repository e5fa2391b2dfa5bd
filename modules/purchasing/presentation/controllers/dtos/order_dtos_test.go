package dtos

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestAcceptDTO(t *testing.T) {
	ctx := context.Background()

	t.Run("missing delivery", func(t *testing.T) {
		dto := AcceptDTO{ExpectedDelivery: "  "}
		errs, ok := dto.Ok(ctx)
		require.False(t, ok)
		require.Contains(t, errs, "ExpectedDelivery")
	})

	t.Run("bad date", func(t *testing.T) {
		dto := AcceptDTO{ExpectedDelivery: "next tuesday"}
		_, ok := dto.Ok(ctx)
		require.False(t, ok)
	})

	t.Run("datetime-local with expirations", func(t *testing.T) {
		dto := AcceptDTO{
			ExpectedDelivery: "2024-06-01T14:30",
			Items: []AcceptItemDTO{
				{ItemID: 10, ExpirationDate: "2025-01-01"},
				{ItemID: 11},
			},
		}
		errs, ok := dto.Ok(ctx)
		require.True(t, ok, errs)

		in := dto.ToInput()
		require.True(t, in.ExpectedDelivery.Equal(time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)))
		require.Len(t, in.ItemExpirations, 1)
		require.True(t, in.ItemExpirations[10].Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	})
}

func TestProposeDTO(t *testing.T) {
	ctx := context.Background()

	t.Run("negative quantity", func(t *testing.T) {
		dto := ProposeDTO{Items: []ProposeItemDTO{{ItemID: 1, Quantity: intPtr(-1)}}}
		errs, ok := dto.Ok(ctx)
		require.False(t, ok)
		require.Contains(t, errs, "Quantity")
	})

	t.Run("bad price", func(t *testing.T) {
		dto := ProposeDTO{Items: []ProposeItemDTO{{ItemID: 1, Price: "-2.5"}}}
		errs, ok := dto.Ok(ctx)
		require.False(t, ok)
		require.Contains(t, errs, "Price")
	})

	t.Run("quantity above storable range", func(t *testing.T) {
		dto := ProposeDTO{Items: []ProposeItemDTO{{ItemID: 1, Quantity: intPtr(4294967306)}}}
		errs, ok := dto.Ok(ctx)
		require.False(t, ok)
		require.Contains(t, errs, "Quantity")
	})

	t.Run("price bounds", func(t *testing.T) {
		for _, price := range []string{"10000000000", "12345678901", "2.50001"} {
			dto := ProposeDTO{Items: []ProposeItemDTO{{ItemID: 1, Price: price}}}
			errs, ok := dto.Ok(ctx)
			require.False(t, ok, price)
			require.Contains(t, errs, "Price")
		}
		dto := ProposeDTO{Items: []ProposeItemDTO{{ItemID: 1, Quantity: intPtr(2147483647), Price: "9999999999.9999"}}}
		errs, ok := dto.Ok(ctx)
		require.True(t, ok, errs)
	})

	t.Run("omitted fields stay nil", func(t *testing.T) {
		dto := ProposeDTO{
			ProposedDelivery: "2024-06-01",
			Note:             "  partial availability ",
			Items:            []ProposeItemDTO{{ItemID: 1, Quantity: intPtr(10), Price: "2.50"}, {ItemID: 2, Quantity: intPtr(5)}},
		}
		errs, ok := dto.Ok(ctx)
		require.True(t, ok, errs)

		in := dto.ToInput()
		require.Equal(t, "partial availability", *in.Note)
		require.NotNil(t, in.ProposedDelivery)
		require.Len(t, in.Items, 2)
		require.True(t, in.Items[0].Price.Equal(decimal.RequireFromString("2.5")))
		require.Equal(t, 5, *in.Items[1].Quantity)
		require.Nil(t, in.Items[1].Price)
		require.Nil(t, in.Items[1].ExpirationDate)
	})

	t.Run("empty proposal", func(t *testing.T) {
		dto := ProposeDTO{}
		_, ok := dto.Ok(ctx)
		require.True(t, ok)
		in := dto.ToInput()
		require.Nil(t, in.Note)
		require.Nil(t, in.ProposedDelivery)
	})
}

func TestDeclineDTO(t *testing.T) {
	dto := DeclineDTO{Reason: "   "}
	errs, ok := dto.Ok(context.Background())
	require.False(t, ok)
	require.Contains(t, errs, "Reason")

	dto = DeclineDTO{Reason: " late shipment "}
	_, ok = dto.Ok(context.Background())
	require.True(t, ok)
	require.Equal(t, "late shipment", dto.Reason)
}
