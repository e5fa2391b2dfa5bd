package types

import (
	"github.com/iota-uz/go-i18n/v2/i18n"
)

// NavigationItem is a portal menu entry. Name is a locale key.
type NavigationItem struct {
	Name     string           `json:"-"`
	Href     string           `json:"href"`
	Children []NavigationItem `json:"-"`
}

type LocalizedNavigationItem struct {
	Label    string                    `json:"label"`
	Href     string                    `json:"href"`
	Children []LocalizedNavigationItem `json:"children,omitempty"`
}

// Localize renders the item tree with l, keeping the key as label when a
// translation is missing.
func (n NavigationItem) Localize(l *i18n.Localizer) LocalizedNavigationItem {
	label := n.Name
	if l != nil {
		if msg, err := l.Localize(&i18n.LocalizeConfig{MessageID: n.Name}); err == nil && msg != "" {
			label = msg
		}
	}
	out := LocalizedNavigationItem{Label: label, Href: n.Href}
	for _, child := range n.Children {
		out.Children = append(out.Children, child.Localize(l))
	}
	return out
}
