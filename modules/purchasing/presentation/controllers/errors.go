package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/iota-uz/go-i18n/v2/i18n"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/entities/viewstate"
	"github.com/amas-erp/supplier-portal/pkg/composables"
	"github.com/amas-erp/supplier-portal/pkg/httpapi"
	"github.com/amas-erp/supplier-portal/pkg/intl"
	"github.com/amas-erp/supplier-portal/pkg/repo"
)

type errorClass struct {
	status    int
	code      string
	localeKey string
	fallback  string
}

var (
	classNotFound = errorClass{http.StatusNotFound, "PO_NOT_FOUND", "Purchasing.Errors.NotFound",
		"This purchase order could not be found."}
	classInvalidTransition = errorClass{http.StatusConflict, "PO_INVALID_TRANSITION", "Purchasing.Errors.InvalidTransition",
		"This purchase order has already moved on. Refresh to see its current status."}
	classValidation = errorClass{http.StatusUnprocessableEntity, "PO_VALIDATION_FAILED", "Purchasing.Errors.Validation",
		"Please correct the highlighted fields."}
	classTransient = errorClass{http.StatusServiceUnavailable, "PO_STORE_UNAVAILABLE", "Purchasing.Errors.Transient",
		"The order store is temporarily unavailable. Please try again."}
	classInternal = errorClass{http.StatusInternalServerError, "PO_INTERNAL", "Purchasing.Errors.Internal",
		"Something went wrong while processing the order."}
	classNoSession = errorClass{http.StatusBadRequest, "PO_NO_SESSION", "Purchasing.Errors.NoSession",
		"Your session has expired. Reload the page."}
)

func localize(ctx context.Context, key, fallback string) string {
	l, ok := intl.UseLocalizer(ctx)
	if !ok {
		return fallback
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}

func classify(err error) (errorClass, map[string]string) {
	var (
		notFound   *purchaseorder.NotFoundError
		invalid    *purchaseorder.InvalidTransitionError
		validation *purchaseorder.ValidationError
		transient  *repo.TransientStoreError
	)
	switch {
	case errors.As(err, &notFound):
		return classNotFound, nil
	case errors.As(err, &invalid):
		return classInvalidTransition, map[string]string{"current_status": string(invalid.Current)}
	case errors.As(err, &validation):
		return classValidation, map[string]string{"field": validation.Field, "reason": validation.Reason}
	case errors.As(err, &transient):
		return classTransient, nil
	case errors.Is(err, viewstate.ErrNoSession):
		return classNoSession, nil
	default:
		return classInternal, nil
	}
}

// writeServiceError maps err onto the API error envelope. Store details are
// logged and never sent to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	class, meta := classify(err)
	logger := composables.TryUseLogger(r.Context()).WithError(err).WithField("code", class.code)
	if class.status >= http.StatusInternalServerError {
		logger.Error("purchasing request failed")
	} else {
		logger.Debug("purchasing request rejected")
	}

	if meta == nil {
		meta = map[string]string{}
	}
	meta["request_id"] = httpapi.EnsureRequestID(w, r)
	_ = httpapi.WriteJSON(w, class.status, &httpapi.ErrorEnvelope{
		Code:    class.code,
		Message: localize(r.Context(), class.localeKey, class.fallback),
		Meta:    meta,
	})
}

func writeFieldErrors(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	_ = httpapi.WriteValidationError(w, r, classValidation.code,
		localize(r.Context(), classValidation.localeKey, classValidation.fallback), fields)
}
