package supplier

import (
	"context"
	"errors"
)

var ErrSupplierNotFound = errors.New("supplier not found")

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Supplier, error)
	GetByID(ctx context.Context, id int64) (*Supplier, error)
	// Create inserts a blank profile for email. A concurrent insert for the
	// same e-mail is not an error; the existing row is returned.
	Create(ctx context.Context, email string) (*Supplier, error)
	Update(ctx context.Context, s *Supplier) error
	// ListCities returns the known cities of country, or none when the
	// lookup table is unavailable.
	ListCities(ctx context.Context, country string) ([]string, error)
}
