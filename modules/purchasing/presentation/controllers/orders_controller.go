package controllers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/aggregates/purchaseorder"
	"github.com/amas-erp/supplier-portal/modules/purchasing/presentation/controllers/dtos"
	"github.com/amas-erp/supplier-portal/modules/purchasing/presentation/mappers"
	"github.com/amas-erp/supplier-portal/modules/purchasing/services"
	"github.com/amas-erp/supplier-portal/pkg/application"
	"github.com/amas-erp/supplier-portal/pkg/composables"
	"github.com/amas-erp/supplier-portal/pkg/configuration"
	"github.com/amas-erp/supplier-portal/pkg/httpapi"
	"github.com/amas-erp/supplier-portal/pkg/intl"
	"github.com/amas-erp/supplier-portal/pkg/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type OrdersController struct {
	app         application.Application
	orders      *services.PurchaseOrderService
	negotiation *services.NegotiationService
	viewState   *services.ViewStateService
	resolver    middleware.SupplierResolver
	currency    string
	basePath    string
}

func NewOrdersController(app application.Application, resolver middleware.SupplierResolver) application.Controller {
	return &OrdersController{
		app:         app,
		orders:      app.Service(services.PurchaseOrderService{}).(*services.PurchaseOrderService),
		negotiation: app.Service(services.NegotiationService{}).(*services.NegotiationService),
		viewState:   app.Service(services.ViewStateService{}).(*services.ViewStateService),
		resolver:    resolver,
		currency:    configuration.Use().Currency,
		basePath:    "/purchasing/api",
	}
}

func (c *OrdersController) Key() string {
	return c.basePath
}

func (c *OrdersController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(
		middleware.ProvideLocalizer(c.app),
		middleware.ProvideSupplier(c.resolver),
		middleware.ProvideSession(),
	)

	router.HandleFunc("/orders/active", c.ListActive).Methods(http.MethodGet)
	router.HandleFunc("/orders/archived", c.ListArchived).Methods(http.MethodGet)
	router.HandleFunc("/orders/archived.xlsx", c.ExportArchived).Methods(http.MethodGet)
	router.HandleFunc("/orders/{poid:[0-9]+}", c.Detail).Methods(http.MethodGet)
	router.HandleFunc("/orders/{poid:[0-9]+}:accept", c.Accept).Methods(http.MethodPost)
	router.HandleFunc("/orders/{poid:[0-9]+}:propose", c.Propose).Methods(http.MethodPost)
	router.HandleFunc("/orders/{poid:[0-9]+}:decline", c.Decline).Methods(http.MethodPost)
	router.HandleFunc("/orders/{poid:[0-9]+}:ship", c.advance(purchaseorder.ActionShip)).Methods(http.MethodPost)
	router.HandleFunc("/orders/{poid:[0-9]+}:deliver", c.advance(purchaseorder.ActionDeliver)).Methods(http.MethodPost)

	router.HandleFunc("/view-state", c.ViewState).Methods(http.MethodGet)
	router.HandleFunc("/view-state/{poid:[0-9]+}", c.SetViewState).Methods(http.MethodPut)
}

func (c *OrdersController) translate(ctx context.Context) mappers.Translate {
	return func(key string) string { return intl.MustT(ctx, key) }
}

// requestScope returns the supplier id and the POID path variable, if any.
func requestScope(w http.ResponseWriter, r *http.Request) (supplierID, poid int64, ok bool) {
	supplierID, err := composables.UseSupplierID(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "sign-in required")
		return 0, 0, false
	}
	raw, has := mux.Vars(r)["poid"]
	if !has {
		return supplierID, 0, true
	}
	poid, err = strconv.ParseInt(raw, 10, 64)
	if err != nil || poid <= 0 {
		writeServiceError(w, r, &purchaseorder.NotFoundError{POID: poid})
		return 0, 0, false
	}
	return supplierID, poid, true
}

func (c *OrdersController) ListActive(w http.ResponseWriter, r *http.Request) {
	supplierID, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	orders, err := c.orders.ListActive(r.Context(), supplierID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items": mappers.OrdersToViewModels(orders, c.translate(r.Context())),
	})
}

func (c *OrdersController) ListArchived(w http.ResponseWriter, r *http.Request) {
	supplierID, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	orders, err := c.orders.ListArchived(r.Context(), supplierID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items": mappers.OrdersToViewModels(orders, c.translate(r.Context())),
	})
}

func (c *OrdersController) ExportArchived(w http.ResponseWriter, r *http.Request) {
	supplierID, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := c.orders.ExportArchived(r.Context(), supplierID, &buf); err != nil {
		writeServiceError(w, r, err)
		return
	}
	filename := fmt.Sprintf("archived-orders-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (c *OrdersController) Detail(w http.ResponseWriter, r *http.Request) {
	supplierID, poid, ok := requestScope(w, r)
	if !ok {
		return
	}
	detail, err := c.orders.GetDetail(r.Context(), supplierID, poid)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.DetailToViewModel(detail, c.currency, c.translate(r.Context())))
}

func (c *OrdersController) Accept(w http.ResponseWriter, r *http.Request) {
	supplierID, poid, ok := requestScope(w, r)
	if !ok {
		return
	}
	var dto dtos.AcceptDTO
	if !decode(w, r, &dto) {
		return
	}
	if errs, valid := dto.Ok(r.Context()); !valid {
		writeFieldErrors(w, r, errs)
		return
	}
	po, err := c.negotiation.Accept(r.Context(), supplierID, poid, dto.ToInput())
	c.respond(w, r, po, err)
}

func (c *OrdersController) Propose(w http.ResponseWriter, r *http.Request) {
	supplierID, poid, ok := requestScope(w, r)
	if !ok {
		return
	}
	var dto dtos.ProposeDTO
	if !decode(w, r, &dto) {
		return
	}
	if errs, valid := dto.Ok(r.Context()); !valid {
		writeFieldErrors(w, r, errs)
		return
	}
	po, err := c.negotiation.Propose(r.Context(), supplierID, poid, dto.ToInput())
	c.respond(w, r, po, err)
}

func (c *OrdersController) Decline(w http.ResponseWriter, r *http.Request) {
	supplierID, poid, ok := requestScope(w, r)
	if !ok {
		return
	}
	var dto dtos.DeclineDTO
	if !decode(w, r, &dto) {
		return
	}
	if errs, valid := dto.Ok(r.Context()); !valid {
		writeFieldErrors(w, r, errs)
		return
	}
	po, err := c.negotiation.Decline(r.Context(), supplierID, poid, dto.Reason)
	c.respond(w, r, po, err)
}

func (c *OrdersController) advance(action purchaseorder.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, poid, ok := requestScope(w, r)
		if !ok {
			return
		}
		po, err := c.negotiation.Advance(r.Context(), supplierID, poid, action)
		c.respond(w, r, po, err)
	}
}

func (c *OrdersController) respond(w http.ResponseWriter, r *http.Request, po *purchaseorder.PurchaseOrder, err error) {
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := c.viewState.Settle(r.Context(), po.ID); err != nil {
		composables.TryUseLogger(r.Context()).WithError(err).WithField("poid", po.ID).Warn("settle panel state")
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.OrderToViewModel(po, c.translate(r.Context())))
}

func (c *OrdersController) ViewState(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requestScope(w, r); !ok {
		return
	}
	board, err := c.viewState.Board(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"panels": mappers.BoardToViewModels(board),
	})
}

func (c *OrdersController) SetViewState(w http.ResponseWriter, r *http.Request) {
	_, poid, ok := requestScope(w, r)
	if !ok {
		return
	}
	var dto dtos.PanelStateDTO
	if !decode(w, r, &dto) {
		return
	}
	if err := c.viewState.Set(r.Context(), poid, dto.ToEntity()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := httpapi.DecodeBody(r, dst)
	if err == nil {
		return true
	}
	if errors.Is(err, httpapi.ErrUnsupportedMediaType) {
		_ = httpapi.WriteError(w, r, http.StatusUnsupportedMediaType, "PO_UNSUPPORTED_MEDIA_TYPE", "unsupported media type")
		return false
	}
	_ = httpapi.WriteError(w, r, http.StatusBadRequest, "PO_INVALID_BODY", "invalid request body")
	return false
}
