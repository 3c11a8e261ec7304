package category

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andrasnagy-data/peliculas/internal/shared/middleware"
	"github.com/andrasnagy-data/peliculas/internal/shared/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "let-me-in"

// headerAuth accepts only testToken so routing can be tested without an issuer
func headerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		ctx := middleware.WithClaims(r.Context(), &token.Claims{Username: "ana"})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newTestServer(t *testing.T) (*httptest.Server, *MemRepo) {
	t.Helper()
	repo := NewMemRepo()
	srv := httptest.NewServer(NewRouter(NewService(repo), headerAuth))
	t.Cleanup(srv.Close)
	return srv, repo
}

func do(t *testing.T, method, url, body string, authed bool) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRouter_CRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/", `{"name":"Drama"}`, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/api/categorias/1", resp.Header.Get("Location"))

	var created Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, 1, created.ID)

	resp = do(t, http.MethodGet, srv.URL+"/", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 1)

	resp = do(t, http.MethodGet, srv.URL+"/1", "", false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPatch, srv.URL+"/1", `{"id":1,"name":"Terror"}`, true)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/1", "", true)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/1", "", false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Errors(t *testing.T) {
	srv, repo := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/", `{"name":"Drama"}`, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/", `{"name":"Drama"}`, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/", `{"name":"DRAMA"}`, true)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/", `{"name":`, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPatch, srv.URL+"/1", `{"id":2,"name":"Terror"}`, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/7", "", true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	repo.InUse = func(int) bool { return true }
	resp = do(t, http.MethodDelete, srv.URL+"/1", "", true)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/abc", "", false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_IDOutOfRange(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/3000000000", "", false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/3000000000", "", true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_BodyTooLarge(t *testing.T) {
	srv, repo := newTestServer(t)

	body := `{"name":"` + strings.Repeat("a", 70<<10) + `"}`
	resp := do(t, http.MethodPost, srv.URL+"/", body, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct{ Error string }
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out.Error, "request body exceeds")

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
