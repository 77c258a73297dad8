package geography_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/geography"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCountriesByNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/Country/GetCountriesByNames", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var names []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&names))
		assert.Equal(t, []string{"Germany"}, names)

		_, _ = w.Write([]byte(`[{"country":"Germany","countryIso2Code":"DE","countryIso3Code":"DEU","region":"Europe"}]`))
	}))
	defer srv.Close()

	got, err := geography.NewClient(srv.URL+"/", time.Second).CountriesByNames(context.Background(), []string{"Germany"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "DE", got[0].CountryIso2Code)
	assert.Equal(t, "Europe", got[0].Region)
}

func TestClientCitiesSendsQueries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/City/GetCitiesByCityAndCountryNames", r.URL.Path)

		var queries []map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&queries))
		assert.Equal(t, []map[string]string{{"city": "Munich", "country": "DE"}}, queries)

		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	got, err := geography.NewClient(srv.URL, time.Second).
		CitiesByCityAndCountry(context.Background(), []domain.LocationQuery{{City: "Munich", Country: "DE"}})

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClientNonSuccessIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	got, err := geography.NewClient(srv.URL, time.Second).
		StatesByStateAndCountry(context.Background(), []domain.LocationQuery{{State: "Bavaria", Country: "DE"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Nil(t, got)
}

func TestCachedLookupInProcess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`[{"countryIso2Code":"FR"}]`))
	}))
	defer srv.Close()

	lookup := geography.NewCachedLookup(geography.NewClient(srv.URL, time.Second), nil, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := lookup.CountriesByNames(ctx, []string{"France"})
		require.NoError(t, err)
		assert.Equal(t, "FR", got[0].CountryIso2Code)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, err := lookup.CountriesByNames(ctx, []string{"Spain"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCachedLookupDoesNotCacheErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"countryIso2Code":"FR"}]`))
	}))
	defer srv.Close()

	lookup := geography.NewCachedLookup(geography.NewClient(srv.URL, time.Second), nil, time.Minute)
	ctx := context.Background()

	_, err := lookup.CountriesByNames(ctx, []string{"France"})
	require.Error(t, err)

	got, err := lookup.CountriesByNames(ctx, []string{"France"})
	require.NoError(t, err)
	assert.Equal(t, "FR", got[0].CountryIso2Code)
}

func TestClientLookupEndsWithCallerDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := geography.NewClient(srv.URL, 0).CitiesByCityAndCountry(ctx, []domain.LocationQuery{{City: "Munich"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
