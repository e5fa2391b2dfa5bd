package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	TxKey        ContextKey = "tx"
	PoolKey      ContextKey = "pool"
	LoggerKey    ContextKey = "logger"
	ParamsKey    ContextKey = "params"
	AppKey       ContextKey = "app"
	RequestStart ContextKey = "request_start"
	SupplierKey  ContextKey = "supplier"
	SessionKey   ContextKey = "session"
	LocalizerKey ContextKey = "localizer"
	LocaleKey    ContextKey = "locale"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())
