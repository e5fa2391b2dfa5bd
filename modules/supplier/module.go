package supplier

import (
	"embed"

	"github.com/amas-erp/supplier-portal/modules/supplier/infrastructure/persistence"
	"github.com/amas-erp/supplier-portal/modules/supplier/presentation/controllers"
	"github.com/amas-erp/supplier-portal/modules/supplier/services"
	"github.com/amas-erp/supplier-portal/pkg/application"
)

//go:embed presentation/locales/*.json
var localeFiles embed.FS

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.RegisterLocaleFiles(&localeFiles)
	app.Migrations().RegisterSchema(&migrationFiles)
	app.RegisterServices(
		services.NewSupplierService(persistence.NewSupplierRepository()),
	)
	app.RegisterControllers(
		controllers.NewSupplierController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "supplier"
}
