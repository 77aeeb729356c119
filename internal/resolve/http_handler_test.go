package resolve_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bibresolver/internal/entity"
	"bibresolver/internal/httpx"
	"bibresolver/internal/resolve"
	"bibresolver/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMux(svc *resolve.Service) http.Handler {
	mux := http.NewServeMux()
	resolve.NewHTTPHandler(svc).Register(mux)
	return httpx.RequestIDMiddleware(mux)
}

func TestHTTPHandler_GetByNumber(t *testing.T) {
	h := newMux(newFixtureService(t))

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, testutil.NewRequest(http.MethodGet, "/v1/items/oclc/34473395?electronic=first", nil))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, true, resp.Body["success"])

		data := resp.Body["data"].(map[string]interface{})
		assert.Equal(t, "100", data["bib"].(map[string]interface{})["bib_id"])
		assert.Len(t, data["related_bib_ids"], 4)
		first := data["holdings"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "1003", first["mfhd_id"])

		meta := resp.Body["meta"].(map[string]interface{})
		assert.NotEmpty(t, meta["request_id"])
		assert.Equal(t, float64(4), meta["related"])
	})

	t.Run("bad type", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, testutil.NewRequest(http.MethodGet, "/v1/items/lccn/123", nil))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "BAD_REQUEST", resp.Body["error"].(map[string]interface{})["code"])
	})

	t.Run("bad electronic flag", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, testutil.NewRequest(http.MethodGet, "/v1/items/isbn/0395080311?electronic=middle", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed isbn", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, testutil.NewRequest(http.MethodGet, "/v1/items/isbn/12345", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, testutil.NewRequest(http.MethodGet, "/v1/items/oclc/99999999", nil))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, "NOT_FOUND", resp.Body["error"].(map[string]interface{})["code"])
	})
}

func TestHTTPHandler_GetBib(t *testing.T) {
	h := newMux(newFixtureService(t))

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, testutil.NewRequest(http.MethodGet, "/v1/bibs/800", nil))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, resp.Code)
		data := resp.Body["data"].(map[string]interface{})
		assert.NotEmpty(t, data["illiad_link"])
		assert.Equal(t, []interface{}{}, data["holdings"])
	})

	t.Run("non numeric id", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, testutil.NewRequest(http.MethodGet, "/v1/bibs/abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, testutil.NewRequest(http.MethodPost, "/v1/bibs/100", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestHTTPHandler_Upstream(t *testing.T) {
	svc := resolve.NewService(nil, staticExpander{err: entity.ErrUpstreamUnavailable}, staticAggregator{}, nil, testutil.TestConfig(), nil)
	h := newMux(svc)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, testutil.NewRequest(http.MethodGet, "/v1/bibs/100", nil))

	resp := testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", resp.Body["error"].(map[string]interface{})["code"])
}
