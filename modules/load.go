package modules

import (
	"slices"

	"github.com/amas-erp/supplier-portal/modules/purchasing"
	"github.com/amas-erp/supplier-portal/modules/supplier"
	"github.com/amas-erp/supplier-portal/pkg/application"
)

var (
	// BuiltInModules is ordered: purchasing resolves suppliers through the
	// supplier module's service.
	BuiltInModules = []application.Module{
		supplier.NewModule(),
		purchasing.NewModule(),
	}

	NavLinks = slices.Concat(
		purchasing.NavItems,
		supplier.NavItems,
	)
)

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
