package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mandel59/mahjong/common/jwts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *HttpServer {
	s := NewHttpServer(WithMode(gin.TestMode))
	s.Use(RequestIDMiddleware(), CorsMiddleware())
	s.GET("/ping", func(c *Context) error {
		c.Success(c.GetString(KeyRequestID))
		return nil
	})
	s.Group("/open", OptionalAuthMiddleware("secret")).GET("/me", func(c *Context) error {
		c.Success(c.GetString(KeyUserID))
		return nil
	})
	g := s.Group("/api", AuthMiddleware("secret"))
	g.GET("/me", func(c *Context) error {
		c.Success(c.GetString(KeyUserID))
		return nil
	})
	return s
}

func serve(s *HttpServer, req *http.Request) (*httptest.ResponseRecorder, Response) {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	var resp Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestRequestID(t *testing.T) {
	s := newTestServer()
	w, resp := serve(s, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	rid := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, rid)
	assert.Equal(t, rid, resp.Data)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc")
	w, _ = serve(s, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer()
	w, resp := serve(s, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeUnauthorized, resp.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w, _ = serve(s, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := jwts.GetToken(jwts.NewClaims("u-9", 60), "secret")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, resp = serve(s, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-9", resp.Data)
}

func TestCorsPreflight(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://example.com")
	w, _ := serve(s, req)
	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestOptionalAuthMiddleware(t *testing.T) {
	s := newTestServer()
	w, resp := serve(s, httptest.NewRequest(http.MethodGet, "/open/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Data)

	req := httptest.NewRequest(http.MethodGet, "/open/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w, resp = serve(s, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Data)

	token, err := jwts.GetToken(jwts.NewClaims("u-3", 60), "secret")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/open/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	_, resp = serve(s, req)
	assert.Equal(t, "u-3", resp.Data)
}
