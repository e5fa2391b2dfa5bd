package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/amas-erp/supplier-portal/modules/supplier/domain/aggregates/supplier"
)

type fakeRepository struct {
	mu        sync.Mutex
	nextID    int64
	suppliers map[int64]*supplier.Supplier
	cities    map[string][]string
	creates   int
	getErr    error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{nextID: 1, suppliers: map[int64]*supplier.Supplier{}, cities: map[string][]string{}}
}

func (f *fakeRepository) GetByEmail(_ context.Context, email string) (*supplier.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, s := range f.suppliers {
		if s.ContactEmail == email {
			c := *s
			return &c, nil
		}
	}
	return nil, supplier.ErrSupplierNotFound
}

func (f *fakeRepository) GetByID(_ context.Context, id int64) (*supplier.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.suppliers[id]
	if !ok {
		return nil, supplier.ErrSupplierNotFound
	}
	c := *s
	return &c, nil
}

func (f *fakeRepository) Create(ctx context.Context, email string) (*supplier.Supplier, error) {
	f.mu.Lock()
	f.creates++
	exists := false
	for _, s := range f.suppliers {
		if s.ContactEmail == email {
			exists = true
		}
	}
	if !exists {
		now := time.Now()
		f.suppliers[f.nextID] = &supplier.Supplier{ID: f.nextID, ContactEmail: email, CreatedAt: now, UpdatedAt: now}
		f.nextID++
	}
	f.mu.Unlock()
	return f.GetByEmail(ctx, email)
}

func (f *fakeRepository) Update(_ context.Context, s *supplier.Supplier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.suppliers[s.ID]; !ok {
		return supplier.ErrSupplierNotFound
	}
	c := *s
	c.UpdatedAt = time.Now()
	f.suppliers[s.ID] = &c
	return nil
}

func (f *fakeRepository) ListCities(_ context.Context, country string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string{}, f.cities[country]...)
	sort.Strings(out)
	return out, nil
}

func passThrough(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
