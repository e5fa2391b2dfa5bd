package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/amas-erp/supplier-portal/pkg/application"
	"github.com/amas-erp/supplier-portal/pkg/httpapi"
	"github.com/amas-erp/supplier-portal/pkg/intl"
	"github.com/amas-erp/supplier-portal/pkg/middleware"
	"github.com/amas-erp/supplier-portal/pkg/types"
)

// NavigationController serves the portal menu in the request locale.
type NavigationController struct {
	app   application.Application
	items []types.NavigationItem
}

func NewNavigationController(app application.Application, items []types.NavigationItem) application.Controller {
	return &NavigationController{app: app, items: items}
}

func (c *NavigationController) Key() string {
	return "/api/navigation"
}

func (c *NavigationController) Register(r *mux.Router) {
	router := r.PathPrefix("/api/navigation").Subrouter()
	router.Use(middleware.ProvideLocalizer(c.app))
	router.HandleFunc("", c.List).Methods(http.MethodGet)
}

func (c *NavigationController) List(w http.ResponseWriter, r *http.Request) {
	l, _ := intl.UseLocalizer(r.Context())
	locale := intl.UseLocale(r.Context())
	out := make([]types.LocalizedNavigationItem, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item.Localize(l))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"locale": locale.String(),
		"rtl":    intl.IsRTL(locale),
		"items":  out,
	})
}
