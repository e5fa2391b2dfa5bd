package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/amas-erp/supplier-portal/modules/supplier/domain/aggregates/supplier"
)

func TestGetOrCreateByEmail(t *testing.T) {
	repo := newFakeRepository()
	svc := NewSupplierService(repo, WithTxRunner(passThrough))
	ctx := context.Background()

	first, err := svc.GetOrCreateByEmail(ctx, "  Dana@Acme.test ")
	require.NoError(t, err)
	require.Equal(t, "dana@acme.test", first.ContactEmail)
	require.Empty(t, first.Name)

	second, err := svc.GetOrCreateByEmail(ctx, "dana@acme.test")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, repo.creates)

	id, err := svc.ResolveSupplierID(ctx, "DANA@acme.test")
	require.NoError(t, err)
	require.Equal(t, first.ID, id)

	_, err = svc.GetOrCreateByEmail(ctx, "   ")
	require.Error(t, err)
}

func TestGetByEmail_DoesNotCreate(t *testing.T) {
	repo := newFakeRepository()
	svc := NewSupplierService(repo, WithTxRunner(passThrough))

	_, err := svc.GetByEmail(context.Background(), "Dana@acme.test")
	require.ErrorIs(t, err, supplier.ErrSupplierNotFound)
	require.Zero(t, repo.creates)
}

func TestGetOrCreateByEmail_StoreFailure(t *testing.T) {
	repo := newFakeRepository()
	repo.getErr = errors.New("connection refused")
	svc := NewSupplierService(repo, WithTxRunner(passThrough))

	_, err := svc.ResolveSupplierID(context.Background(), "dana@acme.test")
	require.Error(t, err)
	require.Zero(t, repo.creates)
}

func TestSaveDetails(t *testing.T) {
	repo := newFakeRepository()
	svc := NewSupplierService(repo, WithTxRunner(passThrough))
	ctx := context.Background()

	created, err := svc.GetOrCreateByEmail(ctx, "dana@acme.test")
	require.NoError(t, err)

	saved, err := svc.SaveDetails(ctx, created.ID, supplier.Profile{
		Name:    "Acme Medical",
		Type:    supplier.TypeManufacturer,
		Country: "Iraq",
		City:    "Erbil",
	})
	require.NoError(t, err)
	require.Equal(t, "Acme Medical", saved.Name)
	require.Equal(t, "dana@acme.test", saved.ContactEmail)
	require.Contains(t, saved.MissingFields(), supplier.FieldAddress)
	require.NotContains(t, saved.MissingFields(), supplier.FieldCity)

	_, err = svc.SaveDetails(ctx, 999, supplier.Profile{})
	require.ErrorIs(t, err, supplier.ErrSupplierNotFound)
}

func TestCities(t *testing.T) {
	repo := newFakeRepository()
	repo.cities["Iraq"] = []string{"Sulaymaniyah", "Erbil", "Duhok"}
	svc := NewSupplierService(repo)

	cities, err := svc.Cities(context.Background(), " Iraq ")
	require.NoError(t, err)
	require.Equal(t, []string{"Duhok", "Erbil", "Sulaymaniyah"}, cities)

	cities, err = svc.Cities(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, cities)
}

func TestFormStructure(t *testing.T) {
	svc := NewSupplierService(newFakeRepository())
	fields := svc.FormStructure(language.English)
	require.Len(t, fields, len(supplier.ProfileFields))

	byField := map[supplier.Field]FormField{}
	for _, f := range fields {
		byField[f.Field] = f
		require.NotEmpty(t, f.LabelKey)
	}
	require.Equal(t, FormFieldSelect, byField[supplier.FieldType].Kind)
	require.Len(t, byField[supplier.FieldType].Options, 4)
	require.Equal(t, FormFieldDynamicSelect, byField[supplier.FieldCity].Kind)
	require.Equal(t, supplier.FieldCountry, byField[supplier.FieldCity].DependsOn)
	require.Equal(t, FormFieldTextarea, byField[supplier.FieldBankDetails].Kind)
	require.Greater(t, len(byField[supplier.FieldCountry].Options), 150)
}

func TestCountries(t *testing.T) {
	countries := Countries(language.English)
	found := false
	for _, c := range countries {
		if c.Code == "IQ" {
			found = true
			require.Equal(t, "Iraq", c.Name)
		}
	}
	require.True(t, found)
	require.True(t, KnownCountry("Iraq"))
	require.False(t, KnownCountry("Atlantis"))
}
