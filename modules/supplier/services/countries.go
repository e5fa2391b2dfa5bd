package services

import (
	"sort"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type Country struct {
	// Name is the English name, the value stored on the profile.
	Name  string `json:"name"`
	Label string `json:"label"`
	Code  string `json:"code"`
}

var countryRegions = sync.OnceValue(func() []language.Region {
	var out []language.Region
	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			r, err := language.ParseRegion(string([]rune{a, b}))
			if err != nil || !r.IsCountry() {
				continue
			}
			if display.English.Regions().Name(r) == "" {
				continue
			}
			out = append(out, r)
		}
	}
	return out
})

// Countries lists ISO 3166 countries sorted by label, labelled in locale
// when names exist for it and in English otherwise.
func Countries(locale language.Tag) []Country {
	namer := display.Regions(locale)
	english := display.English.Regions()
	regions := countryRegions()
	out := make([]Country, 0, len(regions))
	for _, r := range regions {
		name := english.Name(r)
		label := name
		if namer != nil {
			if n := namer.Name(r); n != "" {
				label = n
			}
		}
		out = append(out, Country{Name: name, Label: label, Code: r.String()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func KnownCountry(name string) bool {
	english := display.English.Regions()
	for _, r := range countryRegions() {
		if english.Name(r) == name {
			return true
		}
	}
	return false
}
