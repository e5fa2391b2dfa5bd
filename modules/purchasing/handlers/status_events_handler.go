package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
	"github.com/amas-erp/supplier-portal/pkg/application"
)

var statusChanges = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "purchasing_status_changes_total",
		Help: "Committed purchase order status changes.",
	},
	[]string{"from", "to"},
)

type StatusEventsHandler struct {
	logger *logrus.Logger
}

func NewStatusEventsHandler(logger *logrus.Logger) *StatusEventsHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &StatusEventsHandler{logger: logger}
}

func RegisterStatusEventHandlers(app application.Application, logger *logrus.Logger) {
	handler := NewStatusEventsHandler(logger)
	app.EventPublisher().Subscribe(handler.onStatusChanged)
}

func (h *StatusEventsHandler) onStatusChanged(event *purchaseorder.StatusChangedEvent) {
	if event == nil {
		return
	}
	statusChanges.WithLabelValues(string(event.From), string(event.To)).Inc()

	entry := h.logger.WithFields(logrus.Fields{
		"event_id":    event.EventID,
		"poid":        event.POID,
		"supplier_id": event.SupplierID,
		"action":      event.Action,
		"from":        event.From,
		"to":          event.To,
	})
	if event.Note != nil && event.To == purchaseorder.StatusDeclined {
		entry = entry.WithField("reason", *event.Note)
	}
	entry.Info("purchase order status changed")
}
