package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
	"github.com/amas-erp/supplier-portal/modules/purchasing/infrastructure/persistence"
	"github.com/amas-erp/supplier-portal/modules/purchasing/services"
	"github.com/amas-erp/supplier-portal/pkg/application"
	"github.com/amas-erp/supplier-portal/pkg/configuration"
	"github.com/amas-erp/supplier-portal/pkg/eventbus"
	"github.com/amas-erp/supplier-portal/pkg/httpapi"
	"github.com/amas-erp/supplier-portal/pkg/repo"
)

const (
	aliceEmail = "alice@supplier.test"
	aliceID    = int64(7)
)

type staticResolver map[string]int64

func (s staticResolver) ResolveSupplierID(_ context.Context, email string) (int64, error) {
	id, ok := s[email]
	if !ok {
		return 0, errors.New("unknown supplier")
	}
	return id, nil
}

// stubRepository keeps orders in memory; listErr, when set, fails the list calls.
type stubRepository struct {
	mu      sync.Mutex
	orders  map[int64]*purchaseorder.PurchaseOrder
	items   map[int64][]*purchaseorder.Item
	listErr error
}

func (s *stubRepository) list(supplierID int64, statuses []purchaseorder.Status) ([]*purchaseorder.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []*purchaseorder.PurchaseOrder{}
	for _, po := range s.orders {
		for _, st := range statuses {
			if po.SupplierID == supplierID && po.Status == st {
				c := *po
				out = append(out, &c)
			}
		}
	}
	return out, nil
}

func (s *stubRepository) ListActive(_ context.Context, supplierID int64) ([]*purchaseorder.PurchaseOrder, error) {
	return s.list(supplierID, purchaseorder.ActiveStatuses)
}

func (s *stubRepository) ListArchived(_ context.Context, supplierID int64) ([]*purchaseorder.PurchaseOrder, error) {
	return s.list(supplierID, purchaseorder.ArchivedStatuses)
}

func (s *stubRepository) ListItems(_ context.Context, poid int64) ([]*purchaseorder.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*purchaseorder.Item{}, s.items[poid]...), nil
}

func (s *stubRepository) GetByID(_ context.Context, poid int64) (*purchaseorder.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	po, ok := s.orders[poid]
	if !ok {
		return nil, &purchaseorder.NotFoundError{POID: poid}
	}
	c := *po
	return &c, nil
}

func (s *stubRepository) GetByIDForUpdate(ctx context.Context, poid int64) (*purchaseorder.PurchaseOrder, error) {
	return s.GetByID(ctx, poid)
}

func (s *stubRepository) write(poid int64, from *purchaseorder.Status, to purchaseorder.Status, note *string, delivery *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	po, ok := s.orders[poid]
	if !ok {
		return &purchaseorder.NotFoundError{POID: poid}
	}
	if from != nil && po.Status != *from {
		return &purchaseorder.InvalidTransitionError{POID: poid, Current: po.Status, Attempted: to}
	}
	po.Status = to
	if note != nil {
		po.SupplierNote = note
	}
	if delivery != nil {
		po.ExpectedDelivery = delivery
	}
	now := time.Now()
	po.RespondedAt = &now
	return nil
}

func (s *stubRepository) UpdateStatus(_ context.Context, poid int64, p purchaseorder.UpdateStatusParams) error {
	return s.write(poid, p.From, p.Status, p.SupplierNote, p.ExpectedDelivery)
}

func (s *stubRepository) ProposeOrder(_ context.Context, poid int64, p purchaseorder.ProposeOrderParams) error {
	return s.write(poid, p.From, purchaseorder.StatusProposedBySupplier, p.SupplierNote, nil)
}

func (s *stubRepository) ProposeItem(_ context.Context, poid, itemID int64, p purchaseorder.ProposeItemParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items[poid] {
		if it.ItemID == itemID {
			if p.Quantity != nil {
				it.SupProposedQuantity = p.Quantity
			}
			return nil
		}
	}
	return &purchaseorder.NotFoundError{POID: poid, ItemID: &itemID}
}

type fixture struct {
	repo   *stubRepository
	router *mux.Router
}

func passThrough(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stub := &stubRepository{
		orders: map[int64]*purchaseorder.PurchaseOrder{
			100: {ID: 100, SupplierID: aliceID, OrderDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Status: purchaseorder.StatusPending},
			101: {ID: 101, SupplierID: aliceID, OrderDate: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Status: purchaseorder.StatusAccepted},
			102: {ID: 102, SupplierID: aliceID, OrderDate: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), Status: purchaseorder.StatusDelivered},
			200: {ID: 200, SupplierID: aliceID + 1, OrderDate: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), Status: purchaseorder.StatusPending},
		},
		items: map[int64][]*purchaseorder.Item{
			100: {{POID: 100, ItemID: 1, ItemName: "Gauze", OrderedQuantity: 12}},
		},
	}
	bus := eventbus.NewEventPublisher(nil)
	app := application.New(&application.ApplicationOptions{EventBus: bus})
	app.RegisterServices(
		services.NewPurchaseOrderService(stub),
		services.NewNegotiationService(stub, bus, services.WithTxRunner(passThrough)),
		services.NewViewStateService(persistence.NewMemoryViewStateRepository()),
	)

	router := mux.NewRouter()
	NewOrdersController(app, staticResolver{aliceEmail: aliceID}).Register(router)
	return &fixture{repo: stub, router: router}
}

func (f *fixture) do(t *testing.T, method, path, contentType, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(configuration.Use().Auth.EmailHeader, aliceEmail)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) httpapi.ErrorEnvelope {
	t.Helper()
	var env httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestOrdersController_RequiresIdentity(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/purchasing/api/orders/active", nil)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestOrdersController_ListActive(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/purchasing/api/orders/active", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Items []struct {
			POID   int64  `json:"poid"`
			Status string `json:"status"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)
	for _, it := range body.Items {
		require.NotEqual(t, int64(200), it.POID)
	}
}

func TestOrdersController_DetailOfOtherSupplierIsNotFound(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/purchasing/api/orders/200", "", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "PO_NOT_FOUND", decodeEnvelope(t, rr).Code)
}

func TestOrdersController_Accept(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodPost, "/purchasing/api/orders/100:accept", "application/json",
		`{"expected_delivery":"2024-06-01T14:30"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var vm struct {
		Status           string `json:"status"`
		ExpectedDelivery string `json:"expected_delivery"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &vm))
	require.Equal(t, string(purchaseorder.StatusAccepted), vm.Status)
	require.Equal(t, "2024-06-01 14:30", vm.ExpectedDelivery)
}

func TestOrdersController_ShipPendingConflicts(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodPost, "/purchasing/api/orders/100:ship", "", "")
	require.Equal(t, http.StatusConflict, rr.Code)
	env := decodeEnvelope(t, rr)
	require.Equal(t, "PO_INVALID_TRANSITION", env.Code)
	require.Equal(t, string(purchaseorder.StatusPending), env.Meta["current_status"])
	require.NotEmpty(t, env.Meta["request_id"])
}

func TestOrdersController_ShipThenDeliver(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodPost, "/purchasing/api/orders/101:ship", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	rr = f.do(t, http.MethodPost, "/purchasing/api/orders/101:deliver", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, purchaseorder.StatusDelivered, f.repo.orders[101].Status)
}

func TestOrdersController_Decline(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodPost, "/purchasing/api/orders/100:decline", "application/json", `{"reason":"  "}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	env := decodeEnvelope(t, rr)
	require.Equal(t, "PO_VALIDATION_FAILED", env.Code)
	require.Contains(t, env.Fields, "Reason")

	form := url.Values{"Reason": {"late shipment"}}
	rr = f.do(t, http.MethodPost, "/purchasing/api/orders/100:decline", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, purchaseorder.StatusDeclined, f.repo.orders[100].Status)
	require.Equal(t, "late shipment", *f.repo.orders[100].SupplierNote)
}

func TestOrdersController_UnknownJSONField(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodPost, "/purchasing/api/orders/100:decline", "application/json", `{"why":"x"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOrdersController_StoreErrors(t *testing.T) {
	t.Run("transient", func(t *testing.T) {
		f := newFixture(t)
		f.repo.listErr = &repo.TransientStoreError{Op: "list_active", Cause: errors.New("connection reset")}
		rr := f.do(t, http.MethodGet, "/purchasing/api/orders/active", "", "")
		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		require.Equal(t, "PO_STORE_UNAVAILABLE", decodeEnvelope(t, rr).Code)
	})

	t.Run("internal details stay server side", func(t *testing.T) {
		f := newFixture(t)
		f.repo.listErr = errors.New(`relation "purchase_orders" does not exist`)
		rr := f.do(t, http.MethodGet, "/purchasing/api/orders/archived", "", "")
		require.Equal(t, http.StatusInternalServerError, rr.Code)
		require.Equal(t, "PO_INTERNAL", decodeEnvelope(t, rr).Code)
		require.NotContains(t, rr.Body.String(), "purchase_orders")
	})
}

func TestOrdersController_ViewState(t *testing.T) {
	f := newFixture(t)
	sid := &http.Cookie{Name: configuration.Use().SidCookieKey, Value: "session-1"}

	rr := f.do(t, http.MethodPut, "/purchasing/api/view-state/100", "application/json",
		`{"collapsed":true,"confirming":true}`, sid)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = f.do(t, http.MethodPost, "/purchasing/api/orders/100:decline", "application/json", `{"reason":"no stock"}`, sid)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodGet, "/purchasing/api/view-state", "", "", sid)
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Panels []struct {
			POID       int64 `json:"poid"`
			Collapsed  bool  `json:"collapsed"`
			Confirming bool  `json:"confirming"`
		} `json:"panels"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Panels, 1)
	require.True(t, body.Panels[0].Collapsed)
	require.False(t, body.Panels[0].Confirming)

	rr = f.do(t, http.MethodGet, "/purchasing/api/view-state", "", "",
		&http.Cookie{Name: configuration.Use().SidCookieKey, Value: "session-2"})
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Empty(t, body.Panels)
}

func TestOrdersController_ExportArchived(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/purchasing/api/orders/archived.xlsx", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))
	require.Contains(t, rr.Header().Get("Content-Disposition"), "archived-orders-")
	require.NotZero(t, rr.Body.Len())
}
