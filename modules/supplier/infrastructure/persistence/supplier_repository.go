package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/amas-erp/supplier-portal/modules/supplier/domain/aggregates/supplier"
	"github.com/amas-erp/supplier-portal/pkg/composables"
)

const (
	selectSupplierQuery = `
		SELECT supplier_id, supplier_name, supplier_type, country, city, address,
		       postal_code, contact_name, contact_email, contact_phone,
		       payment_terms, bank_details, created_at, updated_at
		FROM suppliers`

	getByEmailQuery = selectSupplierQuery + ` WHERE contact_email = $1`
	getByIDQuery    = selectSupplierQuery + ` WHERE supplier_id = $1`

	insertSupplierQuery = `
		INSERT INTO suppliers (supplier_name, contact_email)
		VALUES ('', $1)
		ON CONFLICT (contact_email) DO NOTHING`

	updateSupplierQuery = `
		UPDATE suppliers
		SET supplier_name = $2,
		    supplier_type = $3,
		    country       = $4,
		    city          = $5,
		    address       = $6,
		    postal_code   = $7,
		    contact_name  = $8,
		    contact_phone = $9,
		    payment_terms = $10,
		    bank_details  = $11,
		    updated_at    = now()
		WHERE supplier_id = $1`

	listCitiesQuery = `SELECT city FROM cities WHERE country = $1 ORDER BY city`
)

// undefinedTable is raised when the cities table has not been created yet.
const undefinedTable = "42P01"

type SupplierRepository struct{}

func NewSupplierRepository() supplier.Repository {
	return &SupplierRepository{}
}

func (r *SupplierRepository) GetByEmail(ctx context.Context, email string) (*supplier.Supplier, error) {
	return r.getOne(ctx, "suppliers.get_by_email", getByEmailQuery, email)
}

func (r *SupplierRepository) GetByID(ctx context.Context, id int64) (*supplier.Supplier, error) {
	return r.getOne(ctx, "suppliers.get_by_id", getByIDQuery, id)
}

func (r *SupplierRepository) getOne(ctx context.Context, op, query string, arg any) (*supplier.Supplier, error) {
	var out *supplier.Supplier
	err := composables.Retry(ctx, op, func(ctx context.Context) error {
		tx, err := composables.UseTx(ctx)
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		s, err := pgx.CollectExactlyOneRow(rows, scanSupplier)
		if err != nil {
			return err
		}
		out = s
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, supplier.ErrSupplierNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return out, nil
}

func (r *SupplierRepository) Create(ctx context.Context, email string) (*supplier.Supplier, error) {
	const op = "suppliers.create"
	err := composables.Retry(ctx, op, func(ctx context.Context) error {
		tx, err := composables.UseTx(ctx)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, insertSupplierQuery, email)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return r.GetByEmail(ctx, email)
}

func (r *SupplierRepository) Update(ctx context.Context, s *supplier.Supplier) error {
	const op = "suppliers.update"
	var affected int64
	err := composables.Retry(ctx, op, func(ctx context.Context) error {
		tx, err := composables.UseTx(ctx)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, updateSupplierQuery,
			s.ID,
			s.Name,
			string(s.Type),
			s.Country,
			s.City,
			s.Address,
			s.PostalCode,
			s.ContactName,
			s.ContactPhone,
			s.PaymentTerms,
			s.BankDetails,
		)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return errors.Wrap(err, op)
	}
	if affected == 0 {
		return supplier.ErrSupplierNotFound
	}
	return nil
}

func (r *SupplierRepository) ListCities(ctx context.Context, country string) ([]string, error) {
	const op = "cities.list"
	var out []string
	err := composables.Retry(ctx, op, func(ctx context.Context) error {
		tx, err := composables.UseTx(ctx)
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, listCitiesQuery, country)
		if err != nil {
			return err
		}
		cities, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}
		out = cities
		return nil
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return []string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func scanSupplier(row pgx.CollectableRow) (*supplier.Supplier, error) {
	var (
		s   supplier.Supplier
		typ string
	)
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&typ,
		&s.Country,
		&s.City,
		&s.Address,
		&s.PostalCode,
		&s.ContactName,
		&s.ContactEmail,
		&s.ContactPhone,
		&s.PaymentTerms,
		&s.BankDetails,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.Type = supplier.Type(typ)
	return &s, nil
}
