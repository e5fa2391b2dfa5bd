package services

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
	"github.com/amas-erp/supplier-portal/pkg/repo"
)

var transitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "purchasing_transitions_total",
		Help: "Supplier actions on purchase orders by outcome.",
	},
	[]string{"action", "result"},
)

func recordTransition(action purchaseorder.Action, result string) {
	transitionsTotal.WithLabelValues(string(action), result).Inc()
}

func resultLabel(err error) string {
	var (
		notFound   *purchaseorder.NotFoundError
		invalid    *purchaseorder.InvalidTransitionError
		validation *purchaseorder.ValidationError
		transient  *repo.TransientStoreError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &invalid):
		return "invalid_transition"
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &transient):
		return "transient"
	default:
		return "error"
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
