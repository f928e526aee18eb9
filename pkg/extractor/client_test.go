package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosdelseo/prospector/internal/model"
)

func TestSearchListings_DecodesCandidates(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "restaurantes en Lima Peru", r.URL.Query().Get("q"))
		w.Write([]byte(`{"businesses": [
			{"name": "Cevicheria Dona Rosa", "category": "restaurantes", "rating": 4.5,
			 "review_count": 45, "address": "Jr. Union 123", "source_url": "https://maps.example.com/rosa"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", WithRateLimit(0))
	candidates, err := c.SearchListings(context.Background(), "restaurantes en Lima Peru")
	require.NoError(t, err)

	assert.Equal(t, "/v1/search", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	require.Len(t, candidates, 1)
	assert.Equal(t, model.BusinessCandidate{
		Name:        "Cevicheria Dona Rosa",
		Category:    "restaurantes",
		Rating:      4.5,
		ReviewCount: 45,
		Address:     "Jr. Union 123",
		SourceURL:   "https://maps.example.com/rosa",
	}, candidates[0])
}

func TestSearchListings_EmptyIsNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"businesses": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", WithRateLimit(0))
	_, err := c.SearchListings(context.Background(), "talleres en Iquitos Peru")
	assert.True(t, eris.Is(err, ErrNoResults))
}

func TestSearchListings_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "render pool exhausted", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", WithRateLimit(0))
	_, err := c.SearchListings(context.Background(), "hoteles en Lima Peru")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "render pool exhausted")
}

func TestSearchListings_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"businesses": [`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", WithRateLimit(0))
	_, err := c.SearchListings(context.Background(), "hoteles en Lima Peru")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode search response")
}

func TestFetchDetail_DecodesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/detail", r.URL.Path)
		assert.Equal(t, "https://maps.example.com/rosa", r.URL.Query().Get("url"))
		w.Write([]byte(`{"detail": {
			"phone": "+51 912 345 678",
			"website": "https://donarosa.pe",
			"facebook": "https://facebook.com/donarosa"
		}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", WithRateLimit(0))
	detail, err := c.FetchDetail(context.Background(), "https://maps.example.com/rosa")
	require.NoError(t, err)
	assert.Equal(t, "+51 912 345 678", detail.Phone)
	assert.Equal(t, "https://donarosa.pe", detail.Website)
	assert.Equal(t, "https://facebook.com/donarosa", detail.Facebook)
}

func TestGet_NoAuthHeaderWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"detail": {}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", WithRateLimit(0))
	_, err := c.FetchDetail(context.Background(), "https://maps.example.com/rosa")
	require.NoError(t, err)
}
