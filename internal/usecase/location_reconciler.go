package usecase

import (
	"context"
	"fmt"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"
)

// LocationReconciler turns a free-text country/state/city guess into a
// canonical, mutually consistent triple.
//
// More specific matches win: a state match may correct the country, and a
// single unambiguous city match may correct both. A city name matching several
// places only sets the city.
type LocationReconciler struct {
	lookup domain.GeographyLookup
}

func NewLocationReconciler(lookup domain.GeographyLookup) *LocationReconciler {
	return &LocationReconciler{lookup: lookup}
}

func (r *LocationReconciler) Reconcile(ctx context.Context, q domain.LocationQuery) (domain.CanonicalLocation, error) {
	var loc domain.CanonicalLocation

	if q.Country != "" {
		countries, err := r.lookup.CountriesByNames(ctx, []string{q.Country})
		if err != nil {
			return domain.CanonicalLocation{}, upstreamErr("country", err)
		}
		if len(countries) > 0 {
			loc.Country = countries[0].CountryIso2Code
		}
	}

	if q.State != "" {
		// A state cannot be placed without a country.
		if loc.Country == "" {
			return domain.CanonicalLocation{}, nil
		}

		states, err := r.lookup.StatesByStateAndCountry(ctx, []domain.LocationQuery{{State: q.State, Country: loc.Country}})
		if err != nil {
			return domain.CanonicalLocation{}, upstreamErr("state", err)
		}
		if len(states) > 0 {
			loc.State = states[0].StateCode
			if code := states[0].CountryIso2Code; code != "" && code != loc.Country {
				loc.Country = code
			}
		}
	}

	if q.City != "" {
		cities, err := r.lookup.CitiesByCityAndCountry(ctx, []domain.LocationQuery{{City: q.City, Country: loc.Country}})
		if err != nil {
			return domain.CanonicalLocation{}, upstreamErr("city", err)
		}
		if len(cities) > 0 {
			loc.City = cities[0].City
		}
		if len(cities) == 1 {
			if cities[0].StateCode != "" {
				loc.State = cities[0].StateCode
			}
			if cities[0].CountryIso2Code != "" {
				loc.Country = cities[0].CountryIso2Code
			}
		}
	}

	return loc, nil
}

func upstreamErr(kind string, err error) error {
	return apperror.Upstream("Location service is unavailable", fmt.Errorf("%s lookup: %w", kind, err))
}
