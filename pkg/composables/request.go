package composables

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amas-erp/supplier-portal/pkg/constants"
)

var (
	ErrNoLogger   = errors.New("logger not found")
	ErrNoSupplier = errors.New("supplier not found in context")
	ErrNoSession  = errors.New("session not found in context")
)

type Params struct {
	IP        string
	UserAgent string
	Request   *http.Request
	Writer    http.ResponseWriter
}

// UseParams returns the request parameters from the context.
// If the parameters are not found, the second return value will be false.
func UseParams(ctx context.Context) (*Params, bool) {
	params, ok := ctx.Value(constants.ParamsKey).(*Params)
	return params, ok
}

// WithParams returns a new context with the request parameters.
func WithParams(ctx context.Context, params *Params) context.Context {
	return context.WithValue(ctx, constants.ParamsKey, params)
}

// UseLogger returns the request-scoped logger. Panics if the logging
// middleware did not run.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		panic(ErrNoLogger)
	}
	return logger.(*logrus.Entry)
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// Supplier is the authenticated supplier acting in the current request.
type Supplier struct {
	ID    int64
	Email string
}

func WithSupplier(ctx context.Context, s Supplier) context.Context {
	return context.WithValue(ctx, constants.SupplierKey, s)
}

func UseSupplier(ctx context.Context) (Supplier, error) {
	s, ok := ctx.Value(constants.SupplierKey).(Supplier)
	if !ok || s.ID == 0 {
		return Supplier{}, ErrNoSupplier
	}
	return s, nil
}

func UseSupplierID(ctx context.Context) (int64, error) {
	s, err := UseSupplier(ctx)
	if err != nil {
		return 0, err
	}
	return s.ID, nil
}

// WithSessionID stores the view-session identifier used to key presentation state.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.SessionKey, id)
}

func UseSessionID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(constants.SessionKey).(string)
	if !ok || id == "" {
		return "", ErrNoSession
	}
	return id, nil
}
