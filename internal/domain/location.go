package domain

import "context"

// LocationQuery is a free-text country/state/city triple, any part may be empty.
type LocationQuery struct {
	Country string `json:"country,omitempty"`
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
}

// Location is a single match returned by the geography service.
type Location struct {
	Region          string `json:"region,omitempty"`
	SubRegion       string `json:"subRegion,omitempty"`
	City            string `json:"city,omitempty"`
	StateCode       string `json:"stateCode,omitempty"`
	State           string `json:"state,omitempty"`
	CountryIso2Code string `json:"countryIso2Code,omitempty"`
	CountryIso3Code string `json:"countryIso3Code,omitempty"`
	Country         string `json:"country,omitempty"`
}

// CanonicalLocation is the reconciled triple: ISO2 country, state code, city name.
type CanonicalLocation struct {
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`
}

// GeographyLookup resolves free-text place names. Each call may return zero,
// one or many matches; transport failures are returned as errors, never as
// an empty result.
type GeographyLookup interface {
	CountriesByNames(ctx context.Context, names []string) ([]Location, error)
	StatesByStateAndCountry(ctx context.Context, queries []LocationQuery) ([]Location, error)
	CitiesByCityAndCountry(ctx context.Context, queries []LocationQuery) ([]Location, error)
}
