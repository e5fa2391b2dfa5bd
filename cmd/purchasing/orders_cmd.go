package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
	"github.com/amas-erp/supplier-portal/modules/purchasing/services"
	supplierservices "github.com/amas-erp/supplier-portal/modules/supplier/services"
	"github.com/amas-erp/supplier-portal/pkg/application"
)

type ordersFlags struct {
	supplierID    int64
	supplierEmail string
}

func (f *ordersFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.supplierID, "supplier", 0, "Supplier id")
	cmd.Flags().StringVar(&f.supplierEmail, "email", "", "Supplier contact e-mail (alternative to --supplier)")
}

// resolve returns the supplier id; an e-mail lookup never creates a supplier.
func (f *ordersFlags) resolve(ctx context.Context, app application.Application) (int64, error) {
	if f.supplierID > 0 {
		return f.supplierID, nil
	}
	if f.supplierEmail == "" {
		return 0, fmt.Errorf("one of --supplier or --email is required")
	}
	suppliers := app.Service(supplierservices.SupplierService{}).(*supplierservices.SupplierService)
	s, err := suppliers.GetByEmail(ctx, f.supplierEmail)
	if err != nil {
		return 0, fmt.Errorf("supplier %s: %w", f.supplierEmail, err)
	}
	return s.ID, nil
}

type orderRow struct {
	POID             int64  `json:"poid"`
	Status           string `json:"status"`
	OrderDate        string `json:"order_date"`
	ExpectedDelivery string `json:"expected_delivery,omitempty"`
}

func toRows(orders []*purchaseorder.PurchaseOrder) []orderRow {
	rows := make([]orderRow, 0, len(orders))
	for _, po := range orders {
		row := orderRow{
			POID:      po.ID,
			Status:    string(po.Status),
			OrderDate: po.OrderDate.Format("2006-01-02"),
		}
		if po.ExpectedDelivery != nil {
			row.ExpectedDelivery = po.ExpectedDelivery.Format("2006-01-02 15:04")
		}
		rows = append(rows, row)
	}
	return rows
}

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect a supplier's purchase orders",
	}
	cmd.AddCommand(newListCmd("active", "List open purchase orders", func(ctx context.Context, s *services.PurchaseOrderService, id int64) ([]*purchaseorder.PurchaseOrder, error) {
		return s.ListActive(ctx, id)
	}))
	cmd.AddCommand(newListCmd("archived", "List closed purchase orders", func(ctx context.Context, s *services.PurchaseOrderService, id int64) ([]*purchaseorder.PurchaseOrder, error) {
		return s.ListArchived(ctx, id)
	}))
	cmd.AddCommand(newShowCmd())
	return cmd
}

type listFunc func(ctx context.Context, s *services.PurchaseOrderService, supplierID int64) ([]*purchaseorder.PurchaseOrder, error)

func newListCmd(use, short string, list listFunc) *cobra.Command {
	var flags ordersFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, closeDB, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()
			id, err := flags.resolve(ctx, app)
			if err != nil {
				return err
			}
			orders, err := list(ctx, app.Service(services.PurchaseOrderService{}).(*services.PurchaseOrderService), id)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), toRows(orders))
		},
	}
	flags.bind(cmd)
	return cmd
}

func newShowCmd() *cobra.Command {
	var (
		flags ordersFlags
		poid  int64
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one purchase order with its items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, closeDB, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()
			id, err := flags.resolve(ctx, app)
			if err != nil {
				return err
			}
			orders := app.Service(services.PurchaseOrderService{}).(*services.PurchaseOrderService)
			detail, err := orders.GetDetail(ctx, id, poid)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), detail)
		},
	}
	flags.bind(cmd)
	cmd.Flags().Int64Var(&poid, "poid", 0, "Purchase order id (required)")
	_ = cmd.MarkFlagRequired("poid")
	return cmd
}
