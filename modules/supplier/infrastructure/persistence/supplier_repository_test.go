package persistence_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amas-erp/supplier-portal/modules/supplier"
	domain "github.com/amas-erp/supplier-portal/modules/supplier/domain/aggregates/supplier"
	"github.com/amas-erp/supplier-portal/modules/supplier/infrastructure/persistence"
	"github.com/amas-erp/supplier-portal/pkg/itf"
)

func TestSupplierRepository(t *testing.T) {
	te := itf.Setup(t, supplier.NewModule())
	repo := persistence.NewSupplierRepository()

	_, err := repo.GetByEmail(te.Ctx, "dana@acme.test")
	require.ErrorIs(t, err, domain.ErrSupplierNotFound)

	created, err := repo.Create(te.Ctx, "dana@acme.test")
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	again, err := repo.Create(te.Ctx, "dana@acme.test")
	require.NoError(t, err, "a second insert for the same e-mail returns the existing row")
	require.Equal(t, created.ID, again.ID)

	created.Apply(domain.Profile{Name: "Acme Medical", Type: domain.TypeRetailer, Country: "Iraq", City: "Erbil"})
	require.NoError(t, repo.Update(te.Ctx, created))

	got, err := repo.GetByID(te.Ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme Medical", got.Name)
	require.Equal(t, domain.TypeRetailer, got.Type)
	require.False(t, got.UpdatedAt.Before(created.UpdatedAt))

	_, err = repo.GetByID(te.Ctx, created.ID+100)
	require.ErrorIs(t, err, domain.ErrSupplierNotFound)
}

func TestSupplierRepository_ListCities(t *testing.T) {
	te := itf.Setup(t, supplier.NewModule())
	repo := persistence.NewSupplierRepository()

	_, err := te.Pool.Exec(te.Ctx, `INSERT INTO cities (country, city) VALUES ('Iraq', 'Sulaymaniyah'), ('Iraq', 'Erbil'), ('Turkey', 'Van')`)
	require.NoError(t, err)

	cities, err := repo.ListCities(te.Ctx, "Iraq")
	require.NoError(t, err)
	require.Equal(t, []string{"Erbil", "Sulaymaniyah"}, cities)

	_, err = te.Pool.Exec(te.Ctx, `DROP TABLE cities`)
	require.NoError(t, err)
	cities, err = repo.ListCities(te.Ctx, "Iraq")
	require.NoError(t, err)
	require.Empty(t, cities)
}
