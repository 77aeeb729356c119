package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"bibresolver/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const moviegoerJSON = `{"ISBN:0395080311": {
  "title": "The moviegoer",
  "authors": [{"url": "https://openlibrary.org/authors/OL1A", "name": "Walker Percy"}],
  "publishers": [{"name": "Knopf"}],
  "publish_places": [{"name": "New York"}],
  "publish_date": "1961"
}}`

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient("bibresolver-test", 100, 0, 8)
	require.NoError(t, err)
	return c.WithBaseURL(srv.URL), &calls
}

func TestClient_Lookup(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/books", r.URL.Path)
		assert.Equal(t, "bibresolver-test", r.Header.Get("User-Agent"))
		if r.URL.Query().Get("bibkeys") == "ISBN:0395080311" {
			w.Write([]byte(moviegoerJSON))
			return
		}
		w.Write([]byte(`{}`))
	})
	ctx := context.Background()

	rec, err := c.Lookup(ctx, "0395080311", entity.KindISBN)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "The moviegoer", rec.Title)
	assert.Equal(t, "Walker Percy", rec.Author)
	assert.Equal(t, "Knopf", rec.Publisher)
	assert.Equal(t, "New York", rec.PubPlace)
	assert.Equal(t, "1961", rec.PubYear)

	_, err = c.Lookup(ctx, "0395080311", entity.KindISBN)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	rec, err = c.Lookup(ctx, "34473395", entity.KindOCLC)
	require.NoError(t, err)
	assert.Nil(t, rec)
	_, _ = c.Lookup(ctx, "34473395", entity.KindOCLC)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))

	rec, err = c.Lookup(ctx, "0028 0836", entity.KindISSN)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestClient_LookupError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Lookup(context.Background(), "0395080311", entity.KindISBN)
	assert.Error(t, err)
}
