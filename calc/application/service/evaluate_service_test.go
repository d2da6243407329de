package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mandel59/mahjong/calc/application/dto"
	"github.com/mandel59/mahjong/common/cache"
	"github.com/mandel59/mahjong/core/domain/entity"
	"github.com/mandel59/mahjong/core/domain/repository"
	"github.com/mandel59/mahjong/framework/engines/mahjong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryResultCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryResultCache() *memoryResultCache {
	return &memoryResultCache{data: make(map[string][]byte)}
}

func (c *memoryResultCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryResultCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

type memoryRecordRepo struct {
	saved       chan *entity.EvaluationRecord
	limit       int
	offset      int
	findUserID  string
	findRecords []*entity.EvaluationRecord
}

func (r *memoryRecordRepo) Save(_ context.Context, rec *entity.EvaluationRecord) error {
	r.saved <- rec
	return nil
}

func (r *memoryRecordRepo) FindByUser(_ context.Context, userID string, limit, offset int) ([]*entity.EvaluationRecord, int64, error) {
	r.findUserID, r.limit, r.offset = userID, limit, offset
	return r.findRecords, int64(len(r.findRecords)), nil
}

func pinfuTsumo() *dto.EvaluateRequest {
	return &dto.EvaluateRequest{
		Hand:      "234m567p678s23s55p4s",
		RoundWind: 0,
		SeatWind:  1,
		Tsumo:     true,
	}
}

func TestEvaluate(t *testing.T) {
	svc := NewEvaluateService()
	resp, err := svc.Evaluate(context.Background(), "", pinfuTsumo())
	require.NoError(t, err)

	assert.Equal(t, 14, resp.TileCount)
	assert.False(t, resp.Cached)
	require.NotNil(t, resp.Hu)
	assert.True(t, resp.Hu.Valid)
	assert.Equal(t, 20, resp.Hu.Fu)
	assert.Equal(t, 640, resp.Hu.BasicPoints)
	assert.Equal(t, mahjong.Payment{TsumoDealer: 1300, TsumoOthers: 700, Total: 2700}, resp.Hu.Payment)

	var codes []string
	for _, y := range resp.Hu.Yaku {
		codes = append(codes, y.Code)
	}
	assert.Equal(t, []string{"menzen_tsumo", "pinfu", "tanyao"}, codes)
	// 打2s听5s仍是自摸平和断幺
	assert.Contains(t, resp.Tingpai, dto.WaitResult{Discard: "2s", Need: "5s", BasicPoints: 640})
	assert.Equal(t, 0, int(svc.Monitor().Collect(context.Background()).InFlight))
}

func TestEvaluateWaitPoints(t *testing.T) {
	resp, err := NewEvaluateService().Evaluate(context.Background(), "", &dto.EvaluateRequest{Hand: "234m567p678s23s55p"})
	require.NoError(t, err)
	assert.Nil(t, resp.Hu)
	assert.Equal(t, []dto.WaitResult{
		{Need: "1s", BasicPoints: 240},
		{Need: "4s", BasicPoints: 480},
	}, resp.Tingpai)
}

func TestEvaluateInvalidInput(t *testing.T) {
	svc := NewEvaluateService()
	_, err := svc.Evaluate(context.Background(), "", &dto.EvaluateRequest{Hand: "123x"})
	assert.Error(t, err)

	req := pinfuTsumo()
	req.SeatWind = 4
	_, err = svc.Evaluate(context.Background(), "", req)
	assert.ErrorIs(t, err, dto.ErrInvalidWind)

	_, err = svc.Evaluate(context.Background(), "", &dto.EvaluateRequest{Hand: "123m456p789s11z"})
	assert.ErrorIs(t, err, mahjong.ErrTileCount)
}

func TestEvaluateLocalCache(t *testing.T) {
	local, err := cache.NewGeneralCache(1000, time.Minute)
	require.NoError(t, err)
	defer local.Close()
	svc := NewEvaluateService(WithLocalCache(local))

	first, err := svc.Evaluate(context.Background(), "", pinfuTsumo())
	require.NoError(t, err)
	assert.False(t, first.Cached)
	local.Wait()

	// 书写顺序不同, 规范化后为同一手牌
	req := pinfuTsumo()
	req.Hand = "55p234m678s567p23s4s"
	second, err := svc.Evaluate(context.Background(), "", req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Hand, second.Hand)
	assert.Equal(t, first.Hu, second.Hu)

	req.Riichi = true
	third, err := svc.Evaluate(context.Background(), "", req)
	require.NoError(t, err)
	assert.False(t, third.Cached)
}

func TestEvaluateSharedCache(t *testing.T) {
	shared := newMemoryResultCache()
	first, err := NewEvaluateService(WithSharedCache(shared)).Evaluate(context.Background(), "", pinfuTsumo())
	require.NoError(t, err)
	require.Len(t, shared.data, 1)

	second, err := NewEvaluateService(WithSharedCache(shared)).Evaluate(context.Background(), "", pinfuTsumo())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Hu, second.Hu)
	assert.Equal(t, first.Tingpai, second.Tingpai)
}

func TestEvaluatePersistsRecord(t *testing.T) {
	repo := &memoryRecordRepo{saved: make(chan *entity.EvaluationRecord, 1)}
	svc := NewEvaluateService(WithRecords(repo))

	_, err := svc.Evaluate(context.Background(), "", pinfuTsumo())
	require.NoError(t, err)
	_, err = svc.Evaluate(context.Background(), "u-1", pinfuTsumo())
	require.NoError(t, err)

	select {
	case rec := <-repo.saved:
		assert.Equal(t, "u-1", rec.UserID)
		assert.True(t, rec.Hu)
		assert.Equal(t, 640, rec.BasicPoints)
	case <-time.After(time.Second):
		t.Fatal("判定记录未保存")
	}
	assert.Empty(t, repo.saved)
}

func TestEvaluateBatch(t *testing.T) {
	svc := NewEvaluateService(WithBatch(2, 3))
	resp, err := svc.EvaluateBatch(context.Background(), "", &dto.BatchRequest{Items: []dto.EvaluateRequest{
		*pinfuTsumo(),
		{Hand: "bad"},
		{Hand: "2255m3377p4488s1z"},
	}})
	require.NoError(t, err)
	require.Len(t, resp.Items, 3)

	for i, item := range resp.Items {
		assert.Equal(t, i, item.Index)
	}
	assert.NotNil(t, resp.Items[0].Result)
	assert.NotEmpty(t, resp.Items[1].Error)
	assert.Nil(t, resp.Items[1].Result)
	require.NotNil(t, resp.Items[2].Result)
	assert.Nil(t, resp.Items[2].Result.Hu)
	// 七对子 25符2番
	assert.Equal(t, []dto.WaitResult{{Need: "1z", BasicPoints: 400}}, resp.Items[2].Result.Tingpai)

	_, err = svc.EvaluateBatch(context.Background(), "", &dto.BatchRequest{})
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = svc.EvaluateBatch(context.Background(), "", &dto.BatchRequest{Items: make([]dto.EvaluateRequest, 4)})
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestParse(t *testing.T) {
	svc := NewEvaluateService()
	resp, err := svc.Parse("東東東南南南西西西北北北白白")
	require.NoError(t, err)
	assert.Equal(t, "1112223334445z5z", resp.Hand)
	assert.Equal(t, 14, resp.TileCount)
	assert.Equal(t, "5z", resp.Picked)
	assert.True(t, resp.Closed)

	_, err = svc.Parse("[123m]")
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	_, _, err := NewEvaluateService().History(context.Background(), "u-1", dto.HistoryQuery{})
	assert.ErrorIs(t, err, ErrHistoryDisabled)

	repo := &memoryRecordRepo{findRecords: []*entity.EvaluationRecord{{UserID: "u-1"}}}
	svc := NewEvaluateService(WithRecords(repo))
	list, total, err := svc.History(context.Background(), "u-1", dto.HistoryQuery{Page: 3, Size: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "u-1", repo.findUserID)
	assert.Equal(t, 10, repo.limit)
	assert.Equal(t, 20, repo.offset)

	_, _, err = svc.History(context.Background(), "u-1", dto.HistoryQuery{Page: 0, Size: 1000})
	require.NoError(t, err)
	assert.Equal(t, 20, repo.limit)
	assert.Equal(t, 0, repo.offset)
}
