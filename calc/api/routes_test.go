package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mandel59/mahjong/calc/application/dto"
	"github.com/mandel59/mahjong/calc/application/service"
	chttp "github.com/mandel59/mahjong/common/http"
	"github.com/mandel59/mahjong/common/jwts"
	"github.com/mandel59/mahjong/core/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type stubRecords struct {
	records []*entity.EvaluationRecord
}

func (r *stubRecords) Save(_ context.Context, rec *entity.EvaluationRecord) error {
	return nil
}

func (r *stubRecords) FindByUser(_ context.Context, userID string, limit, offset int) ([]*entity.EvaluationRecord, int64, error) {
	var out []*entity.EvaluationRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newTestServer(opts ...service.Option) *chttp.HttpServer {
	gin.SetMode(gin.TestMode)
	s := chttp.NewHttpServer(chttp.WithMode(gin.TestMode))
	h := NewHandler(service.NewEvaluateService(opts...), "calc-test", map[string]bool{"mongo": false})
	RegisterRoutes(s, h, testSecret)
	return s
}

func do(t *testing.T, s *chttp.HttpServer, method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestPing(t *testing.T) {
	w, env := do(t, newTestServer(), http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, chttp.CodeSuccess, env.Code)
	assert.Contains(t, string(env.Data), "calc")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestEvaluateHandler(t *testing.T) {
	s := newTestServer()
	w, env := do(t, s, http.MethodPost, "/api/v1/evaluate", dto.EvaluateRequest{
		Hand:     "234m567p678s23s55p4s",
		SeatWind: 1,
		Tsumo:    true,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, chttp.CodeSuccess, env.Code)

	var resp dto.EvaluateResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotNil(t, resp.Hu)
	assert.Equal(t, 640, resp.Hu.BasicPoints)
	assert.Equal(t, 2700, resp.Hu.Payment.Total)

	w, env = do(t, s, http.MethodPost, "/api/v1/evaluate", dto.EvaluateRequest{Hand: "123m"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, chttp.CodeInvalidParam, env.Code)

	w, _ = do(t, s, http.MethodPost, "/api/v1/evaluate", "not an object", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluateBatchHandler(t *testing.T) {
	s := newTestServer(service.WithBatch(2, 2))
	w, env := do(t, s, http.MethodPost, "/api/v1/evaluate/batch", dto.BatchRequest{Items: []dto.EvaluateRequest{
		{Hand: "2255m3377p4488s1z"},
		{Hand: "x"},
	}}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.BatchResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.Len(t, resp.Items, 2)
	assert.NotNil(t, resp.Items[0].Result)
	assert.NotEmpty(t, resp.Items[1].Error)

	w, _ = do(t, s, http.MethodPost, "/api/v1/evaluate/batch", dto.BatchRequest{Items: make([]dto.EvaluateRequest, 3)}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseHandler(t *testing.T) {
	s := newTestServer()
	w, env := do(t, s, http.MethodGet, "/api/v1/tiles/parse?code=123m456p[%3C789s]11z222z", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ParseResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, []string{"[<789s]"}, resp.Calls)
	assert.False(t, resp.Closed)
	assert.Equal(t, "2z", resp.Picked)

	w, _ = do(t, s, http.MethodGet, "/api/v1/tiles/parse", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryHandler(t *testing.T) {
	token, err := jwts.GetToken(jwts.NewClaims("u-1", 60), testSecret)
	require.NoError(t, err)

	w, _ := do(t, newTestServer(), http.MethodGet, "/api/v1/history", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := do(t, newTestServer(), http.MethodGet, "/api/v1/history", nil, token)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, chttp.CodeUnavailable, env.Code)

	repo := &stubRecords{records: []*entity.EvaluationRecord{{UserID: "u-1", Hand: "h1"}, {UserID: "u-2"}}}
	w, env = do(t, newTestServer(service.WithRecords(repo)), http.MethodGet, "/api/v1/history?page=1&size=5", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		List  []entity.EvaluationRecord `json:"list"`
		Total int64                     `json:"total"`
		Size  int                       `json:"size"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 5, page.Size)
	require.Len(t, page.List, 1)
	assert.Equal(t, "h1", page.List[0].Hand)
}

func TestHealthHandler(t *testing.T) {
	w, env := do(t, newTestServer(), http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "calc-test")
	assert.Contains(t, string(env.Data), "inFlight")
}
