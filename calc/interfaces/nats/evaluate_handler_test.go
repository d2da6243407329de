package nats

import (
	"encoding/json"
	"testing"

	"github.com/mandel59/mahjong/calc/application/dto"
	"github.com/mandel59/mahjong/calc/application/service"
	"github.com/mandel59/mahjong/framework/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reply struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func dispatch(t *testing.T, worker *node.NatsWorker, raw string) reply {
	t.Helper()
	var r reply
	require.NoError(t, json.Unmarshal(worker.Dispatch([]byte(raw)), &r))
	return r
}

func newWorker() *node.NatsWorker {
	worker := node.NewWorker(2)
	worker.RegisterHandlers(NewEvaluateProvider(service.NewEvaluateService()).Handlers())
	return worker
}

func TestEvaluateRoute(t *testing.T) {
	worker := newWorker()
	r := dispatch(t, worker, `{"route":"evaluate","data":{"hand":"234m567p678s23s55p4s","seatWind":1,"tsumo":true}}`)
	require.Equal(t, 0, r.Code, r.Msg)

	var resp dto.EvaluateResponse
	require.NoError(t, json.Unmarshal(r.Data, &resp))
	require.NotNil(t, resp.Hu)
	assert.Equal(t, 640, resp.Hu.BasicPoints)

	r = dispatch(t, worker, `{"route":"evaluate","data":{"hand":"1m"}}`)
	assert.Equal(t, -1, r.Code)
	assert.NotEmpty(t, r.Msg)

	r = dispatch(t, worker, `{"route":"evaluate","data":"oops"}`)
	assert.Equal(t, -1, r.Code)
	assert.Equal(t, node.ErrInvalidMessage.Error(), r.Msg)
}

func TestBatchRoute(t *testing.T) {
	r := dispatch(t, newWorker(), `{"route":"batch","data":{"items":[{"hand":"2255m3377p4488s1z"},{"hand":"zz"}]}}`)
	require.Equal(t, 0, r.Code, r.Msg)
	var resp dto.BatchResponse
	require.NoError(t, json.Unmarshal(r.Data, &resp))
	require.Len(t, resp.Items, 2)
	assert.NotEmpty(t, resp.Items[1].Error)

	r = dispatch(t, newWorker(), `{"route":"batch","data":{"items":[]}}`)
	assert.Equal(t, -1, r.Code)
}

func TestParseRoute(t *testing.T) {
	r := dispatch(t, newWorker(), `{"route":"parse","data":"東東東南南南西西西北北北白白"}`)
	require.Equal(t, 0, r.Code, r.Msg)
	var resp dto.ParseResponse
	require.NoError(t, json.Unmarshal(r.Data, &resp))
	assert.Equal(t, 14, resp.TileCount)
}
