package purchasing

import "github.com/amas-erp/supplier-portal/pkg/types"

var ActiveOrdersLink = types.NavigationItem{
	Name: "NavigationLinks.ActiveOrders",
	Href: "/orders/active",
}

var ArchivedOrdersLink = types.NavigationItem{
	Name: "NavigationLinks.ArchivedOrders",
	Href: "/orders/archived",
}

var OrdersLink = types.NavigationItem{
	Name:     "NavigationLinks.Orders",
	Href:     "/orders",
	Children: []types.NavigationItem{ActiveOrdersLink, ArchivedOrdersLink},
}

var NavItems = []types.NavigationItem{
	OrdersLink,
}
