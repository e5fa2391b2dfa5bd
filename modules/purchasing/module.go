package purchasing

import (
	"embed"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/entities/viewstate"
	"github.com/amas-erp/supplier-portal/modules/purchasing/handlers"
	"github.com/amas-erp/supplier-portal/modules/purchasing/infrastructure/persistence"
	"github.com/amas-erp/supplier-portal/modules/purchasing/presentation/controllers"
	"github.com/amas-erp/supplier-portal/modules/purchasing/services"
	"github.com/amas-erp/supplier-portal/pkg/application"
	"github.com/amas-erp/supplier-portal/pkg/configuration"
	"github.com/amas-erp/supplier-portal/pkg/middleware"
)

//go:embed presentation/locales/*.json
var localeFiles embed.FS

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

var ErrNoSupplierResolver = errors.New("purchasing: no supplier resolver registered, load the supplier module first")

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	resolver, err := supplierResolver(app)
	if err != nil {
		return err
	}
	viewStates, err := newViewStateRepository(conf)
	if err != nil {
		return err
	}

	app.RegisterLocaleFiles(&localeFiles)
	app.Migrations().RegisterSchema(&migrationFiles)

	orders := persistence.NewPurchaseOrderRepository()
	app.RegisterServices(
		services.NewPurchaseOrderService(orders),
		services.NewNegotiationService(orders, app.EventPublisher()),
		services.NewViewStateService(viewStates),
	)
	app.RegisterControllers(
		controllers.NewOrdersController(app, resolver),
	)
	handlers.RegisterStatusEventHandlers(app, conf.Logger())
	return nil
}

func (m *Module) Name() string {
	return "purchasing"
}

func supplierResolver(app application.Application) (middleware.SupplierResolver, error) {
	for _, svc := range app.Services() {
		if r, ok := svc.(middleware.SupplierResolver); ok {
			return r, nil
		}
	}
	return nil, ErrNoSupplierResolver
}

func newViewStateRepository(conf *configuration.Configuration) (viewstate.Repository, error) {
	if conf.ViewState.RedisURL == "" {
		return persistence.NewMemoryViewStateRepository(), nil
	}
	opts, err := redis.ParseURL(conf.ViewState.RedisURL)
	if err != nil {
		return nil, err
	}
	return persistence.NewRedisViewStateRepository(redis.NewClient(opts), conf.ViewState.TTL), nil
}
