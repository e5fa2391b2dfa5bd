package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/amas-erp/supplier-portal/modules/supplier/domain/aggregates/supplier"
	"github.com/amas-erp/supplier-portal/modules/supplier/presentation/controllers/dtos"
	"github.com/amas-erp/supplier-portal/modules/supplier/presentation/mappers"
	"github.com/amas-erp/supplier-portal/modules/supplier/services"
	"github.com/amas-erp/supplier-portal/pkg/application"
	"github.com/amas-erp/supplier-portal/pkg/composables"
	"github.com/amas-erp/supplier-portal/pkg/httpapi"
	"github.com/amas-erp/supplier-portal/pkg/intl"
	"github.com/amas-erp/supplier-portal/pkg/middleware"
	"github.com/amas-erp/supplier-portal/pkg/repo"
)

type SupplierController struct {
	app      application.Application
	service  *services.SupplierService
	basePath string
}

func NewSupplierController(app application.Application) application.Controller {
	return &SupplierController{
		app:      app,
		service:  app.Service(services.SupplierService{}).(*services.SupplierService),
		basePath: "/supplier/api",
	}
}

func (c *SupplierController) Key() string {
	return c.basePath
}

func (c *SupplierController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(
		middleware.ProvideLocalizer(c.app),
		middleware.ProvideSupplier(c.service),
	)
	router.HandleFunc("/profile", c.GetProfile).Methods(http.MethodGet)
	router.HandleFunc("/profile", c.SaveProfile).Methods(http.MethodPut, http.MethodPost)
	router.HandleFunc("/profile/form", c.Form).Methods(http.MethodGet)
	router.HandleFunc("/cities", c.Cities).Methods(http.MethodGet)
}

func translate(r *http.Request) mappers.Translate {
	ctx := r.Context()
	return func(key string) string { return intl.MustT(ctx, key) }
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var transient *repo.TransientStoreError
	switch {
	case errors.Is(err, supplier.ErrSupplierNotFound):
		_ = httpapi.WriteError(w, r, http.StatusNotFound, "SUPPLIER_NOT_FOUND", intl.MustT(r.Context(), "Supplier.Errors.NotFound"))
	case errors.As(err, &transient):
		composables.TryUseLogger(r.Context()).WithError(err).Error("supplier store unavailable")
		_ = httpapi.WriteError(w, r, http.StatusServiceUnavailable, "SUPPLIER_STORE_UNAVAILABLE", intl.MustT(r.Context(), "Supplier.Errors.Transient"))
	default:
		composables.TryUseLogger(r.Context()).WithError(err).Error("supplier request failed")
		_ = httpapi.WriteError(w, r, http.StatusInternalServerError, "SUPPLIER_INTERNAL", intl.MustT(r.Context(), "Supplier.Errors.Internal"))
	}
}

func (c *SupplierController) current(w http.ResponseWriter, r *http.Request) (*supplier.Supplier, bool) {
	id, err := composables.UseSupplierID(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "sign-in required")
		return nil, false
	}
	s, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}
	return s, true
}

func (c *SupplierController) GetProfile(w http.ResponseWriter, r *http.Request) {
	s, ok := c.current(w, r)
	if !ok {
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.SupplierToProfile(s, translate(r)))
}

func (c *SupplierController) SaveProfile(w http.ResponseWriter, r *http.Request) {
	id, err := composables.UseSupplierID(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "sign-in required")
		return
	}
	var dto dtos.ProfileDTO
	if err := httpapi.DecodeBody(r, &dto); err != nil {
		if errors.Is(err, httpapi.ErrUnsupportedMediaType) {
			_ = httpapi.WriteError(w, r, http.StatusUnsupportedMediaType, "SUPPLIER_UNSUPPORTED_MEDIA_TYPE", "unsupported media type")
			return
		}
		_ = httpapi.WriteError(w, r, http.StatusBadRequest, "SUPPLIER_INVALID_BODY", "invalid request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		_ = httpapi.WriteValidationError(w, r, "SUPPLIER_VALIDATION_FAILED", intl.MustT(r.Context(), "Supplier.Errors.Validation"), errs)
		return
	}
	saved, err := c.service.SaveDetails(r.Context(), id, dto.ToProfile())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.SupplierToProfile(saved, translate(r)))
}

func (c *SupplierController) Form(w http.ResponseWriter, r *http.Request) {
	fields := c.service.FormStructure(intl.UseLocale(r.Context()))
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"fields": mappers.FormToViewModels(fields, translate(r)),
	})
}

func (c *SupplierController) Cities(w http.ResponseWriter, r *http.Request) {
	cities, err := c.service.Cities(r.Context(), r.URL.Query().Get("country"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": cities})
}
