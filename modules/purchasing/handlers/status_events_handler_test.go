package handlers

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
	"github.com/amas-erp/supplier-portal/pkg/application"
	"github.com/amas-erp/supplier-portal/pkg/eventbus"
)

func TestStatusEventsHandler_LogsAndCounts(t *testing.T) {
	logger, hook := test.NewNullLogger()
	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(logger),
	})
	RegisterStatusEventHandlers(app, logger)

	counter := statusChanges.WithLabelValues(string(purchaseorder.StatusPending), string(purchaseorder.StatusDeclined))
	before := testutil.ToFloat64(counter)

	reason := "late shipment"
	po := &purchaseorder.PurchaseOrder{ID: 42, SupplierID: 7, Status: purchaseorder.StatusDeclined, SupplierNote: &reason}
	app.EventPublisher().Publish(purchaseorder.NewStatusChangedEvent(po, purchaseorder.ActionDecline, purchaseorder.StatusPending, time.Now()))

	require.InDelta(t, before+1, testutil.ToFloat64(counter), 0.0001)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.InfoLevel, entry.Level)
	require.Equal(t, int64(42), entry.Data["poid"])
	require.Equal(t, reason, entry.Data["reason"])
}

func TestStatusEventsHandler_IgnoresOtherEvents(t *testing.T) {
	logger, hook := test.NewNullLogger()
	bus := eventbus.NewEventPublisher(logger)
	bus.Subscribe(NewStatusEventsHandler(logger).onStatusChanged)

	require.ErrorIs(t, bus.PublishE("not an event"), eventbus.ErrNoSubscribers)
	require.Empty(t, hook.AllEntries())
}
