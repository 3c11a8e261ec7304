package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andrasnagy-data/peliculas/internal/components/category"
	"github.com/andrasnagy-data/peliculas/internal/components/movie"
	"github.com/andrasnagy-data/peliculas/internal/components/user"
	"github.com/andrasnagy-data/peliculas/internal/shared/config"
	"github.com/andrasnagy-data/peliculas/internal/shared/middleware"
	"github.com/andrasnagy-data/peliculas/internal/shared/storage"
	"github.com/andrasnagy-data/peliculas/internal/shared/token"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type api struct {
	t   *testing.T
	url string
}

func newAPI(t *testing.T) *api {
	t.Helper()

	cfg := &config.Config{
		Environment:    "test",
		TokenSecret:    "server-test-secret-0123456789abcdefghij",
		TokenTTL:       24 * time.Hour,
		ImageStore:     storage.StoreLocal,
		ImageDir:       t.TempDir(),
		ImageURLPrefix: "/fotos",
		MaxUploadBytes: 1 << 20,
	}

	issuer, err := token.NewIssuer(cfg)
	require.NoError(t, err)
	auth := middleware.NewAuthMiddleware(issuer)

	images, err := storage.NewImages(cfg, zerolog.Nop())
	require.NoError(t, err)

	categories := category.NewMemRepo()
	movies := movie.NewMemRepo()
	categories.InUse = movies.HasCategory

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	mock.ExpectQuery("SELECT 1").WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))

	s := NewServer(params{
		Config:         cfg,
		Logger:         zerolog.Nop(),
		HealthHandler:  NewHealthHandler(NewHealthSrvc(mock)),
		CategoryRouter: category.NewRouter(category.NewService(categories), auth),
		MovieRouter:    movie.NewRouter(movie.NewService(movies, categories, images, zerolog.Nop()), auth, cfg),
		UserRouter:     user.NewRouter(user.NewService(user.NewMemRepo()), issuer, auth),
	})

	srv := httptest.NewServer(s.server.Handler)
	t.Cleanup(srv.Close)
	return &api{t: t, url: srv.URL}
}

func (a *api) do(method, path, bearer, contentType string, body io.Reader) *http.Response {
	a.t.Helper()
	req, err := http.NewRequest(method, a.url+path, body)
	require.NoError(a.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *api) json(method, path, bearer, body string) *http.Response {
	a.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return a.do(method, path, bearer, "application/json", r)
}

func (a *api) login(username, password string) string {
	a.t.Helper()
	resp := a.json(http.MethodPost, "/api/usuarios/Registro", "",
		`{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)

	resp = a.json(http.MethodPost, "/api/usuarios/Login", "",
		`{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(a.t, http.StatusOK, resp.StatusCode)

	var out user.LoginOut
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Token
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_RegisterLoginAndListUsers(t *testing.T) {
	a := newAPI(t)

	resp := a.json(http.MethodPost, "/api/usuarios/Registro", "", `{"username":"ana","password":"pass1234"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = a.json(http.MethodPost, "/api/usuarios/Login", "", `{"username":"ANA","password":"pass1234"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[user.LoginOut](t, resp)
	require.NotEmpty(t, out.Token)

	resp = a.json(http.MethodGet, "/api/usuarios", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = a.json(http.MethodGet, "/api/usuarios", out.Token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := decode[[]user.User](t, resp)
	require.Len(t, users, 1)
	assert.Equal(t, "ana", users[0].Username)
}

func TestServer_Categories(t *testing.T) {
	a := newAPI(t)
	tok := a.login("ana", "pass1234")

	resp := a.json(http.MethodPost, "/api/categorias", "", `{"name":"Drama"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = a.json(http.MethodPost, "/api/categorias", tok, `{"name":"Drama"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[category.Category](t, resp)
	assert.Equal(t, "/api/categorias/1", resp.Header.Get("Location"))

	resp = a.json(http.MethodPost, "/api/categorias", tok, `{"name":"drama"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = a.json(http.MethodGet, "/api/categorias", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]category.Category](t, resp), 1)

	resp = a.json(http.MethodPatch, "/api/categorias/1", tok, `{"id":1,"name":"Thriller"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.json(http.MethodGet, "/api/categorias/1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Thriller", decode[category.Category](t, resp).Name)

	resp = a.json(http.MethodDelete, "/api/categorias/1", tok, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.json(http.MethodGet, "/api/categorias/1", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1, created.ID)
}

func TestServer_MovieLifecycle(t *testing.T) {
	a := newAPI(t)
	tok := a.login("ana", "pass1234")

	resp := a.json(http.MethodPost, "/api/categorias", tok, `{"name":"Drama"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Roma"))
	require.NoError(t, mw.WriteField("description", "Mexico City, 1970"))
	require.NoError(t, mw.WriteField("duration", "135"))
	require.NoError(t, mw.WriteField("release_date", "2018-11-21"))
	require.NoError(t, mw.WriteField("category_id", "1"))
	require.NoError(t, mw.WriteField("rating", "8.5"))
	fw, err := mw.CreateFormFile("image", "poster.PNG")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not really a png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp = a.do(http.MethodPost, "/api/peliculas", tok, mw.FormDataContentType(), &buf)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	m := decode[movie.Movie](t, resp)
	assert.True(t, strings.HasPrefix(m.ImagePath, "/fotos/"))
	assert.True(t, strings.HasSuffix(m.ImagePath, ".png"))

	resp = a.do(http.MethodGet, m.ImagePath, "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	img, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "not really a png", string(img))

	resp = a.json(http.MethodGet, "/api/peliculas/GetPeliculasEnCategoria/1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]movie.Movie](t, resp), 1)

	resp = a.json(http.MethodGet, "/api/peliculas/Buscar?nombre=rom", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]movie.Movie](t, resp), 1)

	resp = a.json(http.MethodDelete, "/api/categorias/1", tok, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = a.json(http.MethodDelete, "/api/peliculas/1", tok, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.json(http.MethodGet, "/api/peliculas/1", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.json(http.MethodDelete, "/api/peliculas/1", tok, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do(http.MethodGet, m.ImagePath, "", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_HealthAndCORS(t *testing.T) {
	a := newAPI(t)

	resp := a.json(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Request-Id"))

	req, err := http.NewRequest(http.MethodOptions, a.url+"/api/categorias", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	pre, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	pre.Body.Close()

	assert.Equal(t, "*", pre.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, pre.Header.Get("Access-Control-Allow-Methods"), http.MethodPatch)
}
