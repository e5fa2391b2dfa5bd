package persistence_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
	"github.com/amas-erp/supplier-portal/modules/purchasing/infrastructure/persistence"
	"github.com/amas-erp/supplier-portal/pkg/constants"
)

type execResult struct {
	tag pgconn.CommandTag
	err error
}

// scriptedTx answers Exec calls in order and QueryRow with a fixed status.
type scriptedTx struct {
	execs  []execResult
	args   [][]any
	status string
}

func (tx *scriptedTx) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	tx.args = append(tx.args, args)
	if len(tx.execs) == 0 {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	next := tx.execs[0]
	tx.execs = tx.execs[1:]
	return next.tag, next.err
}

func (tx *scriptedTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("query not scripted")
}

func (tx *scriptedTx) QueryRow(context.Context, string, ...any) pgx.Row {
	return statusRow(tx.status)
}

type statusRow string

func (r statusRow) Scan(dest ...any) error {
	if r == "" {
		return pgx.ErrNoRows
	}
	*dest[0].(*string) = string(r)
	return nil
}

func withScriptedTx(tx *scriptedTx) context.Context {
	return context.WithValue(context.Background(), constants.TxKey, tx)
}

func TestProposeItem_RejectsUnstorableValues(t *testing.T) {
	huge := 4294967306
	cases := map[string]purchaseorder.ProposeItemParams{
		"quantity above int32": {Quantity: &huge},
		"price too large":      {Price: ptr(decimal.RequireFromString("12345678901"))},
		"price too precise":    {Price: ptr(decimal.RequireFromString("1.23456"))},
	}
	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			tx := &scriptedTx{}
			err := persistence.NewPurchaseOrderRepository().ProposeItem(withScriptedTx(tx), 100, 1, params)

			var verr *purchaseorder.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Empty(t, tx.args)
		})
	}
}

func TestProposeItem_BindsMaxQuantityUnchanged(t *testing.T) {
	q := purchaseorder.MaxQuantity
	tx := &scriptedTx{}
	err := persistence.NewPurchaseOrderRepository().ProposeItem(withScriptedTx(tx), 100, 1, purchaseorder.ProposeItemParams{Quantity: &q})
	require.NoError(t, err)
	require.Len(t, tx.args, 1)

	bound, ok := tx.args[0][2].(*int32)
	require.True(t, ok)
	require.EqualValues(t, purchaseorder.MaxQuantity, *bound)
}

func TestUpdateStatus_RetryAfterLostReplyCountsAsWritten(t *testing.T) {
	from := purchaseorder.StatusAccepted
	tx := &scriptedTx{
		execs: []execResult{
			{err: io.ErrUnexpectedEOF},
			{tag: pgconn.NewCommandTag("UPDATE 0")},
		},
		status: string(purchaseorder.StatusShipping),
	}
	err := persistence.NewPurchaseOrderRepository().UpdateStatus(withScriptedTx(tx), 101, purchaseorder.UpdateStatusParams{
		Status: purchaseorder.StatusShipping,
		From:   &from,
	})
	require.NoError(t, err)
	require.Len(t, tx.args, 2)
}

func TestUpdateStatus_GuardMissWithoutRetryStaysInvalid(t *testing.T) {
	from := purchaseorder.StatusAccepted
	tx := &scriptedTx{
		execs:  []execResult{{tag: pgconn.NewCommandTag("UPDATE 0")}},
		status: string(purchaseorder.StatusShipping),
	}
	err := persistence.NewPurchaseOrderRepository().UpdateStatus(withScriptedTx(tx), 101, purchaseorder.UpdateStatusParams{
		Status: purchaseorder.StatusShipping,
		From:   &from,
	})

	var invalid *purchaseorder.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, purchaseorder.StatusShipping, invalid.Current)
}

func TestProposeOrder_RetryAfterLostReplyCountsAsWritten(t *testing.T) {
	tx := &scriptedTx{
		execs: []execResult{
			{err: io.EOF},
			{tag: pgconn.NewCommandTag("UPDATE 0")},
		},
		status: string(purchaseorder.StatusProposedBySupplier),
	}
	err := persistence.NewPurchaseOrderRepository().ProposeOrder(withScriptedTx(tx), 100, purchaseorder.ProposeOrderParams{})
	require.NoError(t, err)
}
