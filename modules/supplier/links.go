package supplier

import "github.com/amas-erp/supplier-portal/pkg/types"

var ProfileLink = types.NavigationItem{
	Name: "NavigationLinks.Profile",
	Href: "/profile",
}

var NavItems = []types.NavigationItem{
	ProfileLink,
}
